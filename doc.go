// Package resultboard scrapes a virtual-sports results page on a schedule and
// republishes the latest matching results as a small, mobile-friendly web
// page.
//
// # Quick Start
//
// Create a board and run it with graceful shutdown:
//
//	board, _ := resultboard.New()
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	board.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// Board uses the functional options pattern:
//
//	board, err := resultboard.New(
//	    resultboard.WithRefreshInterval(30 * time.Second),
//	    resultboard.WithResultLimit(5),
//	    resultboard.WithMarker("Italian"),
//	    resultboard.WithPort(9090),
//	)
//
// The default [DriverChrome] renders the page in headless Chrome, which the
// live results page requires. [DriverHTTP] loads pages with a plain GET and
// needs no browser.
//
// # Behaviour
//
// The refresh loop fetches, publishes and then waits the refresh interval,
// so fetches never overlap. A failed fetch is published as a single entry
// starting with "Scraper Error: " and retried on the normal schedule. Page
// requests only read the last published results; they never wait for a
// fetch.
//
// # Architecture
//
//   - internal/scrape: page drivers (chromedp, retryablehttp) and row filtering
//   - internal/cache: single-value result store with atomic replacement
//   - internal/refresh: the fetch, publish, sleep loop
//   - internal/server: results page and admin endpoints
//   - internal/metrics: Prometheus exposition of refresh statistics
//   - dashboard: embedded page template
//
// The internal packages are not part of the public API and may change
// without notice.
package resultboard
