package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nbxlive/resultboard/internal/cache"
	"github.com/nbxlive/resultboard/internal/results"
)

// DefaultInterval is the pause between the end of one refresh and the start
// of the next.
const DefaultInterval = 60 * time.Second

// State is the loop's current phase.
type State int32

const (
	// StateIdle means the loop is waiting for the next refresh.
	StateIdle State = iota

	// StateFetching means a fetch is in progress.
	StateFetching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Fetcher produces one result set per call. It must not return partial sets
// and must not panic; failures are expressed as a failed set.
type Fetcher interface {
	Fetch(ctx context.Context) results.Set
}

// Hook is called after every publish with the published set and the time the
// fetch took.
type Hook func(set results.Set, took time.Duration)

// Loop periodically fetches results and publishes them to a store.
//
// The cycle is Fetching -> publish -> Idle -> sleep interval -> Fetching.
// The interval is measured from the end of a publish, so the loop never
// starts a fetch while the previous one is running.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Loop struct {
	fetcher  Fetcher
	store    cache.Store
	interval time.Duration
	logger   *slog.Logger
	hooks    []Hook

	state      atomic.Int32
	lastDigest string

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewLoop creates a refresh [Loop]. Hooks run on the loop goroutine in the
// order given; a panicking hook is logged and skipped.
func NewLoop(fetcher Fetcher, store cache.Store, interval time.Duration, logger *slog.Logger, hooks ...Hook) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		fetcher:  fetcher,
		store:    store,
		interval: interval,
		logger:   logger,
		hooks:    hooks,
	}
}

// State reports whether the loop is idle or fetching.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Interval returns the pause between refreshes.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Start launches the loop in a background goroutine and returns immediately.
//
// The first fetch begins at once. The loop runs until [Loop.Stop] is called
// or ctx is cancelled. Start is idempotent; if Stop was called first, Start
// is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.started = true
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		l.run(runCtx)
	}()
}

// Stop cancels the loop and waits for it to exit. A fetch in progress sees
// its context cancelled and its result is discarded.
//
// Stop is idempotent and safe to call before Start.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		if l.cancel != nil {
			l.cancel()
		}
	}
	l.mu.Unlock()

	l.wg.Wait()
}

func (l *Loop) run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		l.RefreshOnce(ctx)

		if ctx.Err() != nil {
			return
		}
		timer.Reset(l.interval)
	}
}

// RefreshOnce performs a single fetch and publish on the calling goroutine.
//
// It is exported for the loop and for tests; calling it while the loop is
// running would break the single-writer guarantee. Nothing is published and
// no hooks run when ctx is cancelled before the fetch returns.
func (l *Loop) RefreshOnce(ctx context.Context) results.Set {
	l.state.Store(int32(StateFetching))
	start := time.Now()
	set := l.fetcher.Fetch(ctx)
	took := time.Since(start)

	if ctx.Err() != nil {
		l.state.Store(int32(StateIdle))
		l.logger.Debug("refresh abandoned on shutdown", "duration_ms", took.Milliseconds())
		return set
	}

	l.store.Publish(set)
	l.state.Store(int32(StateIdle))

	digest := set.Digest()
	changed := digest != l.lastDigest
	l.lastDigest = digest

	attrs := []any{
		"entries", len(set.Entries),
		"changed", changed,
		"duration_ms", took.Milliseconds(),
		"next_in", l.interval.String(),
	}
	if set.Failed {
		l.logger.Warn("refresh published error", append(attrs, "error", set.Entries[0])...)
	} else {
		l.logger.Info("refresh published", attrs...)
	}

	for _, hook := range l.hooks {
		l.invokeHookSafe(hook, set, took)
	}
	return set
}

// invokeHookSafe calls a hook with panic recovery.
func (l *Loop) invokeHookSafe(hook Hook, set results.Set, took time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("refresh hook panicked", "panic", fmt.Sprintf("%v", r))
		}
	}()
	hook(set.Clone(), took)
}
