package resultboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/nbxlive/resultboard/dashboard"
	"github.com/nbxlive/resultboard/internal/cache"
	"github.com/nbxlive/resultboard/internal/metrics"
	"github.com/nbxlive/resultboard/internal/refresh"
	"github.com/nbxlive/resultboard/internal/results"
	"github.com/nbxlive/resultboard/internal/scrape"
	"github.com/nbxlive/resultboard/internal/server"
)

const (
	defaultRefreshInterval = refresh.DefaultInterval
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
)

// Board scrapes a results page on a schedule and serves the latest results
// as a web page.
//
// A Board is created with [New] and run with [Board.Start]:
//
//	board, err := resultboard.New(resultboard.WithPort(8080))
//	if err != nil {
//	    slog.Error("failed to create board", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	// blocks until ctx is cancelled
//	if err := board.Start(ctx); err != nil {
//	    slog.Error("board stopped", "error", err)
//	    os.Exit(1)
//	}
//
// The page is available as soon as Start binds the listener. Until the first
// refresh completes it shows a loading placeholder.
type Board struct {
	cfg      boardConfig
	logger   *slog.Logger
	fetcher  *scrape.Fetcher
	store    *cache.MemoryStore
	recorder *metrics.Recorder

	mu      sync.Mutex
	started bool
}

// New creates a [Board] with the given options.
//
// Every option has a default:
//   - Source URL: the betPawa virtual-sports results page
//   - Driver: headless Chrome
//   - Refresh interval: 60 seconds
//   - Fetch timeout: 15 seconds
//   - Results: rows containing "English" among the first 10
//   - Listener: 0.0.0.0:8080
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*Board, error) {
	defaults := scrape.DefaultOptions()
	cfg := &boardConfig{
		title:             server.DefaultTitle,
		host:              defaultHost,
		port:              defaultPort,
		timeFormat:        server.DefaultTimeFormat,
		sourceURL:         defaults.Target.URL,
		tableSelector:     defaults.Target.TableSelector,
		rowSelector:       defaults.Target.RowSelector,
		refreshInterval:   defaultRefreshInterval,
		fetchTimeout:      defaults.Target.Wait,
		navigationTimeout: defaults.Target.NavigationTimeout,
		limit:             defaults.Limit,
		marker:            defaults.Marker,
		driver:            DriverChrome,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.adminPort != 0 && cfg.adminPort == cfg.port {
		return nil, fmt.Errorf("admin port must differ from port %d", cfg.port)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Board{
		cfg:      *cfg,
		logger:   logger,
		store:    cache.NewMemoryStore(),
		recorder: metrics.NewRecorder(),
	}
	b.fetcher = scrape.NewFetcher(newDriver(cfg, logger), b.scrapeOptions(), logger)
	return b, nil
}

func newDriver(cfg *boardConfig, logger *slog.Logger) scrape.Driver {
	if cfg.driver == DriverHTTP {
		return scrape.NewHTTPDriver(cfg.userAgent, logger)
	}
	return scrape.NewChromeDriver(scrape.ChromeOptions{
		ExecPath:  cfg.chromePath,
		UserAgent: cfg.userAgent,
	})
}

func (b *Board) scrapeOptions() scrape.Options {
	return scrape.Options{
		Target: scrape.Target{
			URL:               b.cfg.sourceURL,
			TableSelector:     b.cfg.tableSelector,
			RowSelector:       b.cfg.rowSelector,
			Wait:              b.cfg.fetchTimeout,
			NavigationTimeout: b.cfg.navigationTimeout,
		},
		Marker: b.cfg.marker,
		Limit:  b.cfg.limit,
	}
}

// Start binds the HTTP listener, starts the refresh loop and serves until
// ctx is cancelled.
//
// The listener is bound before the first fetch, so a port conflict is
// reported without ever launching a browser. The first fetch begins
// immediately afterwards; requests arriving before it completes are served
// the placeholder page.
//
// Returns nil on graceful shutdown, or an error if the listener cannot be
// bound. A Board can only be started once.
func (b *Board) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return errors.New("board already started")
	}
	b.started = true
	b.mu.Unlock()

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	hooks := []refresh.Hook{b.recorder.ObserveRefresh}
	for _, cb := range b.cfg.callbacks {
		hooks = append(hooks, callbackHook(cb))
	}
	loop := refresh.NewLoop(b.fetcher, b.store, b.cfg.refreshInterval, b.logger, hooks...)

	srv, err := server.NewServer(b.store, server.Config{
		Host:       b.cfg.host,
		Port:       b.cfg.port,
		AdminPort:  b.cfg.adminPort,
		Title:      b.cfg.title,
		TimeFormat: b.cfg.timeFormat,
		SourceURL:  b.cfg.sourceURL,
	}, dashboard.Assets, b.recorder, func() string { return loop.State().String() }, b.logger)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	b.logger.Info("resultboard starting",
		"url", "http://"+net.JoinHostPort(b.cfg.host, strconv.Itoa(b.cfg.port)),
		"source", b.cfg.sourceURL,
		"driver", b.cfg.driver.String(),
		"interval", b.cfg.refreshInterval.String(),
	)

	loop.Start(ctx)

	<-ctx.Done()
	loop.Stop()
	b.logger.Info("resultboard stopped")
	return nil
}

// callbackHook adapts a public refresh callback to a loop hook. Each
// callback gets its own copy of the entries.
func callbackHook(cb func(Snapshot)) refresh.Hook {
	return func(set results.Set, took time.Duration) {
		cb(toSnapshot(set, took))
	}
}

func toSnapshot(set results.Set, took time.Duration) Snapshot {
	return Snapshot{
		Entries:   copyEntries(set.Entries),
		UpdatedAt: set.UpdatedAt,
		Failed:    set.Failed,
		Duration:  took,
	}
}

// Snapshot returns the entries currently being served. Before the first
// refresh it holds the loading placeholder and a zero UpdatedAt.
func (b *Board) Snapshot() Snapshot {
	return toSnapshot(b.store.Snapshot(), 0)
}

// UpdateScrape replaces the selectors, wait, marker and limit used by
// subsequent refreshes. A refresh already in progress is not affected.
//
// Returns an error, leaving the current settings in place, if any field is
// invalid.
func (b *Board) UpdateScrape(s ScrapeSettings) error {
	if s.TableSelector == "" || s.RowSelector == "" {
		return errors.New("table and row selectors cannot be empty")
	}
	if s.Wait <= 0 {
		return errors.New("fetch timeout must be positive")
	}
	if s.Limit <= 0 {
		return errors.New("result limit must be positive")
	}

	opts := b.fetcher.Options()
	opts.Target.TableSelector = s.TableSelector
	opts.Target.RowSelector = s.RowSelector
	opts.Target.Wait = s.Wait
	opts.Marker = s.Marker
	opts.Limit = s.Limit
	b.fetcher.SetOptions(opts)

	b.logger.Info("scrape settings updated",
		"table_selector", s.TableSelector,
		"row_selector", s.RowSelector,
		"wait", s.Wait.String(),
		"marker", s.Marker,
		"limit", s.Limit,
	)
	return nil
}

// ScrapeSettings returns the settings the next refresh will use.
func (b *Board) ScrapeSettings() ScrapeSettings {
	opts := b.fetcher.Options()
	return ScrapeSettings{
		TableSelector: opts.Target.TableSelector,
		RowSelector:   opts.Target.RowSelector,
		Wait:          opts.Target.Wait,
		Marker:        opts.Marker,
		Limit:         opts.Limit,
	}
}

// Port returns the configured HTTP port.
func (b *Board) Port() int {
	return b.cfg.port
}

// AdminPort returns the admin listener port, or 0 when disabled.
func (b *Board) AdminPort() int {
	return b.cfg.adminPort
}

// RefreshInterval returns the pause between refreshes.
func (b *Board) RefreshInterval() time.Duration {
	return b.cfg.refreshInterval
}

// SourceURL returns the page being scraped.
func (b *Board) SourceURL() string {
	return b.cfg.sourceURL
}

// Driver returns the configured page loader.
func (b *Board) Driver() DriverKind {
	return b.cfg.driver
}

// Title returns the page title.
func (b *Board) Title() string {
	return b.cfg.title
}
