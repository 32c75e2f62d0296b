package scrape

import (
	"context"
	"time"
)

const (
	DefaultURL               = "https://www.betpawa.ug/virtual-sports?virtualTab=results"
	DefaultTableSelector     = ".v-results-table"
	DefaultRowSelector       = ".v-result-row"
	DefaultWait              = 15 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
)

// Target describes where the results live and how long to wait for them.
type Target struct {
	// URL is the page to load.
	URL string

	// TableSelector is a CSS selector for the results container. Its presence
	// signals that the results have rendered.
	TableSelector string

	// RowSelector is a CSS selector for one result row inside the container.
	RowSelector string

	// Wait bounds how long to wait for the container to appear.
	Wait time.Duration

	// NavigationTimeout bounds page navigation. Drivers that do not navigate
	// separately from waiting ignore it.
	NavigationTimeout time.Duration
}

// DefaultTarget returns the target for the betPawa virtual-sports results page.
func DefaultTarget() Target {
	return Target{
		URL:               DefaultURL,
		TableSelector:     DefaultTableSelector,
		RowSelector:       DefaultRowSelector,
		Wait:              DefaultWait,
		NavigationTimeout: DefaultNavigationTimeout,
	}
}

// Driver acquires page-loading sessions.
//
// Every successful Open must be paired with a Close on the returned Session.
type Driver interface {
	Open(ctx context.Context) (Session, error)
}

// Session is an acquired page loader, such as a running browser.
type Session interface {
	// Rows loads the target and returns the raw text of each row, in page order.
	Rows(ctx context.Context, t Target) ([]string, error)

	// Close releases everything the session holds. Safe to call more than once.
	Close() error
}
