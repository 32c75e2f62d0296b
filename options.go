package resultboard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// boardConfig holds mutable state during Board construction.
type boardConfig struct {
	title      string
	host       string
	port       int
	adminPort  int
	timeFormat string

	sourceURL         string
	tableSelector     string
	rowSelector       string
	refreshInterval   time.Duration
	fetchTimeout      time.Duration
	navigationTimeout time.Duration
	limit             int
	marker            string

	driver     DriverKind
	chromePath string
	userAgent  string

	logger    *slog.Logger
	callbacks []func(Snapshot)
}

// Option configures a [Board] during construction.
//
// Options return an error if validation fails; [New] stops at the first
// failing option.
type Option func(*boardConfig) error

// WithSourceURL sets the page the results are scraped from.
//
// Returns an error unless the URL is absolute http or https.
func WithSourceURL(raw string) Option {
	return func(cfg *boardConfig) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid source URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source URL must use http or https, got %q", raw)
		}
		if u.Host == "" {
			return fmt.Errorf("source URL must include a host, got %q", raw)
		}
		cfg.sourceURL = raw
		return nil
	}
}

// WithRefreshInterval sets the pause between the end of one refresh and the
// start of the next. Defaults to 60 seconds.
func WithRefreshInterval(d time.Duration) Option {
	return func(cfg *boardConfig) error {
		if d <= 0 {
			return errors.New("refresh interval must be positive")
		}
		cfg.refreshInterval = d
		return nil
	}
}

// WithFetchTimeout bounds how long a fetch waits for the results table to
// appear. Defaults to 15 seconds.
func WithFetchTimeout(d time.Duration) Option {
	return func(cfg *boardConfig) error {
		if d <= 0 {
			return errors.New("fetch timeout must be positive")
		}
		cfg.fetchTimeout = d
		return nil
	}
}

// WithNavigationTimeout bounds page navigation in the Chrome driver.
// Defaults to 30 seconds.
func WithNavigationTimeout(d time.Duration) Option {
	return func(cfg *boardConfig) error {
		if d <= 0 {
			return errors.New("navigation timeout must be positive")
		}
		cfg.navigationTimeout = d
		return nil
	}
}

// WithResultLimit sets how many leading rows are considered before the
// marker filter applies. Defaults to 10.
func WithResultLimit(n int) Option {
	return func(cfg *boardConfig) error {
		if n <= 0 {
			return errors.New("result limit must be positive")
		}
		cfg.limit = n
		return nil
	}
}

// WithMarker sets the substring a row must contain to be shown. Defaults to
// "English". An empty marker keeps every row.
func WithMarker(marker string) Option {
	return func(cfg *boardConfig) error {
		cfg.marker = marker
		return nil
	}
}

// WithSelectors sets the CSS selectors for the results table and its rows.
func WithSelectors(table, row string) Option {
	return func(cfg *boardConfig) error {
		if strings.TrimSpace(table) == "" || strings.TrimSpace(row) == "" {
			return errors.New("table and row selectors cannot be empty")
		}
		cfg.tableSelector = table
		cfg.rowSelector = row
		return nil
	}
}

// WithHost sets the interface the listeners bind to. Defaults to 0.0.0.0.
func WithHost(host string) Option {
	return func(cfg *boardConfig) error {
		cfg.host = host
		return nil
	}
}

// WithPort sets the HTTP port for the results page. Defaults to 8080.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *boardConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithAdminPort enables the admin listener serving /healthz and /metrics.
// Zero disables it, which is the default.
func WithAdminPort(port int) Option {
	return func(cfg *boardConfig) error {
		if port < 0 || port > 65535 {
			return errors.New("admin port must be between 0 and 65535")
		}
		cfg.adminPort = port
		return nil
	}
}

// WithTitle sets the page title. Defaults to "NBX Live Results".
func WithTitle(title string) Option {
	return func(cfg *boardConfig) error {
		cfg.title = title
		return nil
	}
}

// WithTimeFormat sets the Go time layout used for "Last Updated".
// Defaults to "15:04:05".
func WithTimeFormat(layout string) Option {
	return func(cfg *boardConfig) error {
		if layout == "" {
			return errors.New("time format cannot be empty")
		}
		cfg.timeFormat = layout
		return nil
	}
}

// WithDriver selects how the page is loaded. Defaults to [DriverChrome].
func WithDriver(kind DriverKind) Option {
	return func(cfg *boardConfig) error {
		switch kind {
		case DriverChrome, DriverHTTP:
			cfg.driver = kind
			return nil
		default:
			return fmt.Errorf("unknown driver %q (want %q or %q)", kind, DriverChrome, DriverHTTP)
		}
	}
}

// WithChromePath sets the Chrome executable used by [DriverChrome]. When
// empty, chromedp searches the usual install locations.
func WithChromePath(path string) Option {
	return func(cfg *boardConfig) error {
		cfg.chromePath = path
		return nil
	}
}

// WithUserAgent overrides the User-Agent sent by either driver.
func WithUserAgent(ua string) Option {
	return func(cfg *boardConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *boardConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithRefreshCallback registers a function called after every publish,
// successful or not.
//
// Callbacks run in registration order on the refresh goroutine, so they must
// not block: the next refresh waits for them. Panics are recovered and
// logged.
//
// Example:
//
//	board, err := resultboard.New(
//	    resultboard.WithRefreshCallback(func(s resultboard.Snapshot) {
//	        if s.Failed {
//	            log.Printf("scrape failed: %s", s.Entries[0])
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithRefreshCallback(cb func(Snapshot)) Option {
	return func(cfg *boardConfig) error {
		if cb == nil {
			return nil
		}
		cfg.callbacks = append(cfg.callbacks, cb)
		return nil
	}
}
