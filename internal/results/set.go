package results

import (
	"encoding/hex"
	"slices"
	"time"

	"lukechampine.com/blake3"
)

const (
	// ErrorPrefix marks an entry produced by a failed scrape rather than a match line.
	ErrorPrefix = "Scraper Error: "

	// LoadingEntry is shown until the first refresh has been published.
	LoadingEntry = "Loading results..."
)

// Set is one scrape outcome: ordered result lines plus the time it was produced.
//
// A zero UpdatedAt means no refresh has completed yet.
type Set struct {
	// Entries holds match lines, or a single ErrorPrefix line when Failed is set.
	Entries []string

	// UpdatedAt is the wall-clock time the refresh attempt finished.
	UpdatedAt time.Time

	// Failed reports whether Entries holds a scrape error instead of results.
	Failed bool
}

// Placeholder returns the Set served before the first refresh completes.
func Placeholder() Set {
	return Set{Entries: []string{LoadingEntry}}
}

// Success builds a Set from already-filtered result lines.
func Success(entries []string, at time.Time) Set {
	return Set{Entries: slices.Clone(entries), UpdatedAt: at}
}

// Failure builds the single-entry Set that stands in for a failed scrape.
func Failure(msg string, at time.Time) Set {
	return Set{Entries: []string{ErrorPrefix + msg}, UpdatedAt: at, Failed: true}
}

// Updated reports whether the Set comes from a completed refresh.
func (s Set) Updated() bool {
	return !s.UpdatedAt.IsZero()
}

// Clone returns a copy that shares no memory with s.
func (s Set) Clone() Set {
	s.Entries = slices.Clone(s.Entries)
	return s
}

// Digest returns a hex BLAKE3 hash of the entries. The timestamp is excluded so
// two refreshes that scraped identical lines share a digest.
func (s Set) Digest() string {
	h := blake3.New(32, nil)
	for _, e := range s.Entries {
		_, _ = h.Write([]byte(e))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
