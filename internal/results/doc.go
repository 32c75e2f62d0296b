// Package results defines the immutable snapshot of scraped result lines that
// flows from the scraper, through the cache, to the web page.
//
// A [Set] is produced once per refresh and replaced wholesale by the next one.
// Nothing in this module mutates a Set after it has been built; helpers that
// need a private copy use [Set.Clone].
package results
