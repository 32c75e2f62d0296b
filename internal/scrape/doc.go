// Package scrape performs one scrape attempt against the results page and
// normalises the outcome into a [results.Set].
//
// The main components are:
//
//   - [Driver] and [Session]: the page-loading capability, acquired per fetch
//     and always released
//   - [ChromeDriver]: headless Chrome via chromedp, for the JavaScript-rendered
//     results page
//   - [HTTPDriver]: plain GET via retryablehttp, for server-rendered pages
//   - [Fetcher]: opens a session, extracts rows, filters them, and turns any
//     failure into a single error line
package scrape
