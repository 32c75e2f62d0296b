package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nbxlive/resultboard/internal/results"
)

const (
	DefaultLimit  = 10
	DefaultMarker = "English"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Options controls one scrape: where to look and which rows to keep.
type Options struct {
	Target Target

	// Marker is the substring a row must contain to be kept. Empty keeps all rows.
	Marker string

	// Limit is how many leading rows are considered before filtering.
	Limit int
}

// DefaultOptions returns the options for English-league results on the
// default target.
func DefaultOptions() Options {
	return Options{
		Target: DefaultTarget(),
		Marker: DefaultMarker,
		Limit:  DefaultLimit,
	}
}

// Fetcher performs scrape attempts and normalises their outcome.
//
// Fetch never returns an error: failures become a one-line [results.Set]
// whose entry starts with [results.ErrorPrefix]. Fetcher holds no state
// between calls apart from its options, which may be replaced concurrently
// with [Fetcher.SetOptions].
type Fetcher struct {
	driver Driver
	opts   atomic.Pointer[Options]
	logger *slog.Logger
	now    func() time.Time
}

// NewFetcher creates a [Fetcher] that loads pages through driver.
func NewFetcher(driver Driver, opts Options, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{
		driver: driver,
		logger: logger,
		now:    time.Now,
	}
	f.SetOptions(opts)
	return f
}

// SetOptions replaces the options used by subsequent fetches. A fetch already
// in progress keeps the options it started with.
func (f *Fetcher) SetOptions(opts Options) {
	f.opts.Store(&opts)
}

// Options returns the options the next fetch will use.
func (f *Fetcher) Options() Options {
	return *f.opts.Load()
}

// Fetch runs one scrape attempt.
func (f *Fetcher) Fetch(ctx context.Context) results.Set {
	opts := f.Options()
	start := time.Now()

	rows, err := f.scrape(ctx, opts.Target)
	at := f.now()
	if err != nil {
		f.logger.Warn("scrape failed",
			"url", opts.Target.URL,
			"kind", string(KindOf(err)),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return results.Failure(err.Error(), at)
	}

	kept := Filter(rows, opts.Marker, opts.Limit)
	f.logger.Debug("scrape completed",
		"url", opts.Target.URL,
		"rows", len(rows),
		"kept", len(kept),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return results.Success(kept, at)
}

// scrape acquires a session, reads the rows and releases the session on every
// path, including a panicking driver.
func (f *Fetcher) scrape(ctx context.Context, t Target) (rows []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			f.logger.Error("scrape driver panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			rows = nil
			err = &Error{
				Kind: KindTransport,
				Err:  fmt.Errorf("driver panic (correlation_id: %s)", correlationID),
			}
		}
	}()

	sess, err := f.driver.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			f.logger.Warn("failed to release scrape session", "error", cerr.Error())
		}
	}()

	return sess.Rows(ctx, t)
}

// Filter looks at the first limit rows and keeps those containing marker,
// with line breaks inside each row replaced by spaces. Matching rows beyond
// the window are dropped, so fewer than limit rows may be kept.
func Filter(rows []string, marker string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}
	window := rows[:min(len(rows), limit)]
	out := make([]string, 0, len(window))
	for _, row := range window {
		if !strings.Contains(row, marker) {
			continue
		}
		out = append(out, lineBreaks.Replace(row))
	}
	return out
}
