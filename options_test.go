package resultboard

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if b.Port() != 8080 {
		t.Errorf("Port() = %v, want %v", b.Port(), 8080)
	}
	if b.AdminPort() != 0 {
		t.Errorf("AdminPort() = %v, want 0", b.AdminPort())
	}
	if b.RefreshInterval() != 60*time.Second {
		t.Errorf("RefreshInterval() = %v, want %v", b.RefreshInterval(), 60*time.Second)
	}
	if b.SourceURL() != "https://www.betpawa.ug/virtual-sports?virtualTab=results" {
		t.Errorf("SourceURL() = %q", b.SourceURL())
	}
	if b.Driver() != DriverChrome {
		t.Errorf("Driver() = %q, want %q", b.Driver(), DriverChrome)
	}
	if b.Title() != "NBX Live Results" {
		t.Errorf("Title() = %q", b.Title())
	}

	want := ScrapeSettings{
		TableSelector: ".v-results-table",
		RowSelector:   ".v-result-row",
		Wait:          15 * time.Second,
		Marker:        "English",
		Limit:         10,
	}
	if got := b.ScrapeSettings(); got != want {
		t.Errorf("ScrapeSettings() = %+v, want %+v", got, want)
	}
	if b.cfg.host != "0.0.0.0" {
		t.Errorf("host = %q, want 0.0.0.0", b.cfg.host)
	}
	if b.cfg.navigationTimeout != 30*time.Second {
		t.Errorf("navigationTimeout = %v, want 30s", b.cfg.navigationTimeout)
	}
}

func TestNew_PlaceholderBeforeStart(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snap := b.Snapshot()
	if !snap.UpdatedAt.IsZero() || snap.Failed {
		t.Errorf("expected placeholder snapshot, got %+v", snap)
	}
	if len(snap.Entries) != 1 || snap.Entries[0] != "Loading results..." {
		t.Errorf("Entries = %v", snap.Entries)
	}
}

func TestNew_Options(t *testing.T) {
	b, err := New(
		WithSourceURL("http://localhost:9999/results"),
		WithRefreshInterval(5*time.Second),
		WithFetchTimeout(2*time.Second),
		WithNavigationTimeout(3*time.Second),
		WithResultLimit(4),
		WithMarker("Italian"),
		WithSelectors("#table", "tr"),
		WithHost("127.0.0.1"),
		WithPort(9090),
		WithAdminPort(9091),
		WithTitle("Scores"),
		WithTimeFormat(time.Kitchen),
		WithDriver(DriverHTTP),
		WithChromePath("/usr/bin/chromium"),
		WithUserAgent("resultboard-test"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if b.SourceURL() != "http://localhost:9999/results" {
		t.Errorf("SourceURL() = %q", b.SourceURL())
	}
	if b.RefreshInterval() != 5*time.Second {
		t.Errorf("RefreshInterval() = %v", b.RefreshInterval())
	}
	if b.Port() != 9090 || b.AdminPort() != 9091 {
		t.Errorf("ports = %d/%d", b.Port(), b.AdminPort())
	}
	if b.Driver() != DriverHTTP {
		t.Errorf("Driver() = %q", b.Driver())
	}
	if b.Title() != "Scores" {
		t.Errorf("Title() = %q", b.Title())
	}

	want := ScrapeSettings{TableSelector: "#table", RowSelector: "tr", Wait: 2 * time.Second, Marker: "Italian", Limit: 4}
	if got := b.ScrapeSettings(); got != want {
		t.Errorf("ScrapeSettings() = %+v, want %+v", got, want)
	}

	opts := b.fetcher.Options()
	if opts.Target.URL != "http://localhost:9999/results" || opts.Target.NavigationTimeout != 3*time.Second {
		t.Errorf("fetcher target = %+v", opts.Target)
	}
	if b.cfg.host != "127.0.0.1" || b.cfg.timeFormat != time.Kitchen {
		t.Errorf("cfg = %+v", b.cfg)
	}
	if b.cfg.chromePath != "/usr/bin/chromium" || b.cfg.userAgent != "resultboard-test" {
		t.Errorf("cfg = %+v", b.cfg)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr string
	}{
		{"source url relative", WithSourceURL("/results"), "http or https"},
		{"source url ftp", WithSourceURL("ftp://example.com/results"), "http or https"},
		{"source url no host", WithSourceURL("http:///results"), "must include a host"},
		{"source url unparsable", WithSourceURL("http://[::1"), "invalid source URL"},
		{"refresh interval zero", WithRefreshInterval(0), "refresh interval must be positive"},
		{"refresh interval negative", WithRefreshInterval(-time.Second), "refresh interval must be positive"},
		{"fetch timeout zero", WithFetchTimeout(0), "fetch timeout must be positive"},
		{"navigation timeout zero", WithNavigationTimeout(0), "navigation timeout must be positive"},
		{"limit zero", WithResultLimit(0), "result limit must be positive"},
		{"limit negative", WithResultLimit(-3), "result limit must be positive"},
		{"empty table selector", WithSelectors("", "tr"), "selectors cannot be empty"},
		{"blank row selector", WithSelectors("table", "  "), "selectors cannot be empty"},
		{"port zero", WithPort(0), "port must be between 1 and 65535"},
		{"port too high", WithPort(65536), "port must be between 1 and 65535"},
		{"admin port negative", WithAdminPort(-1), "admin port must be between 0 and 65535"},
		{"empty time format", WithTimeFormat(""), "time format cannot be empty"},
		{"unknown driver", WithDriver("firefox"), "unknown driver"},
		{"nil logger", WithLogger(nil), "logger cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if err == nil {
				t.Fatalf("New() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNew_AdminPortMustDiffer(t *testing.T) {
	_, err := New(WithPort(9000), WithAdminPort(9000))
	if err == nil || !strings.Contains(err.Error(), "admin port must differ") {
		t.Errorf("expected admin port conflict error, got %v", err)
	}
}

func TestWithPort_ValidEdgeCases(t *testing.T) {
	for _, port := range []int{1, 80, 8080, 65535} {
		b, err := New(WithPort(port))
		if err != nil {
			t.Errorf("WithPort(%d) error = %v", port, err)
			continue
		}
		if b.Port() != port {
			t.Errorf("Port() = %d, want %d", b.Port(), port)
		}
	}
}

func TestWithMarker_EmptyKeepsAllRows(t *testing.T) {
	b, err := New(WithMarker(""))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := b.ScrapeSettings().Marker; got != "" {
		t.Errorf("Marker = %q, want empty", got)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	b, err := New(WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if b.logger != logger {
		t.Error("custom logger was not used")
	}
}

func TestWithLogger_DefaultsToSlogDefault(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if b.logger != slog.Default() {
		t.Error("expected slog.Default() when no logger configured")
	}
}

func TestWithTitle_Empty(t *testing.T) {
	b, err := New(WithTitle(""))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// empty string is valid (the page falls back to the default title)
	if b.Title() != "" {
		t.Errorf("Title() = %q, want empty string", b.Title())
	}
}

func TestUpdateScrape(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	next := ScrapeSettings{TableSelector: "table.results", RowSelector: "tr", Wait: 5 * time.Second, Marker: "Spanish", Limit: 3}
	if err := b.UpdateScrape(next); err != nil {
		t.Fatalf("UpdateScrape() error = %v", err)
	}
	if got := b.ScrapeSettings(); got != next {
		t.Errorf("ScrapeSettings() = %+v, want %+v", got, next)
	}

	// URL and navigation timeout are not part of the live settings
	if opts := b.fetcher.Options(); opts.Target.URL != b.SourceURL() || opts.Target.NavigationTimeout != 30*time.Second {
		t.Errorf("unexpected target after update: %+v", opts.Target)
	}
}

func TestUpdateScrape_Invalid(t *testing.T) {
	valid := ScrapeSettings{TableSelector: "table", RowSelector: "tr", Wait: time.Second, Marker: "English", Limit: 10}

	tests := []struct {
		name   string
		mutate func(*ScrapeSettings)
	}{
		{"empty table selector", func(s *ScrapeSettings) { s.TableSelector = "" }},
		{"empty row selector", func(s *ScrapeSettings) { s.RowSelector = "" }},
		{"zero wait", func(s *ScrapeSettings) { s.Wait = 0 }},
		{"zero limit", func(s *ScrapeSettings) { s.Limit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New()
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			before := b.ScrapeSettings()

			s := valid
			tt.mutate(&s)
			if err := b.UpdateScrape(s); err == nil {
				t.Fatal("UpdateScrape() expected error, got nil")
			}
			if got := b.ScrapeSettings(); got != before {
				t.Errorf("settings changed after rejected update: %+v", got)
			}
		})
	}
}
