package resultboard

import (
	"slices"
	"time"
)

// Snapshot is one published refresh, as seen by refresh callbacks.
//
// A Snapshot is a copy; callbacks may keep or modify it without affecting
// the page being served.
type Snapshot struct {
	// Entries holds the kept result lines, or a single "Scraper Error: ..."
	// line when Failed is set.
	Entries []string

	// UpdatedAt is when the refresh finished.
	UpdatedAt time.Time

	// Failed reports whether the refresh failed.
	Failed bool

	// Duration is how long the fetch took.
	Duration time.Duration
}

// DriverKind selects how the results page is loaded.
type DriverKind string

const (
	// DriverChrome renders the page in headless Chrome. Required for the
	// live results page, which builds its table with JavaScript.
	DriverChrome DriverKind = "chrome"

	// DriverHTTP fetches the page with a plain HTTP GET. Suitable for
	// server-rendered pages and local mock servers.
	DriverHTTP DriverKind = "http"
)

// String implements fmt.Stringer.
func (k DriverKind) String() string {
	return string(k)
}

// ScrapeSettings are the fetch parameters that may be changed while the board
// is running, via [Board.UpdateScrape].
type ScrapeSettings struct {
	// TableSelector locates the results table.
	TableSelector string

	// RowSelector locates result rows within the table.
	RowSelector string

	// Wait bounds how long to wait for the table to appear.
	Wait time.Duration

	// Marker is the substring a row must contain to be kept.
	Marker string

	// Limit caps the number of kept rows.
	Limit int
}

func copyEntries(entries []string) []string {
	if entries == nil {
		return nil
	}
	return slices.Clone(entries)
}
