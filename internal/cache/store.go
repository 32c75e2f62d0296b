package cache

import "github.com/nbxlive/resultboard/internal/results"

// Store defines access to the current result set.
//
// Implementations must be safe for concurrent use by one publisher and many
// readers.
type Store interface {
	// Publish replaces the current set. The store keeps its own copy, so the
	// caller may reuse the argument afterwards.
	Publish(set results.Set)

	// Snapshot returns a copy of the current set. Before the first Publish it
	// returns the loading placeholder.
	Snapshot() results.Set
}
