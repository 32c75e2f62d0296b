package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Title != "NBX Live Results" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.AdminPort != 0 {
		t.Errorf("AdminPort = %d, want 0", cfg.AdminPort)
	}
	if cfg.RefreshInterval.Duration() != 60*time.Second {
		t.Errorf("RefreshInterval = %v, want 60s", cfg.RefreshInterval.Duration())
	}
	if cfg.TimeFormat != "15:04:05" {
		t.Errorf("TimeFormat = %q", cfg.TimeFormat)
	}

	s := cfg.Scraper
	if s.Driver != "chrome" {
		t.Errorf("Driver = %q, want chrome", s.Driver)
	}
	if s.URL != "https://www.betpawa.ug/virtual-sports?virtualTab=results" {
		t.Errorf("URL = %q", s.URL)
	}
	if s.TableSelector != ".v-results-table" || s.RowSelector != ".v-result-row" {
		t.Errorf("selectors = %q, %q", s.TableSelector, s.RowSelector)
	}
	if s.WaitTimeout.Duration() != 15*time.Second {
		t.Errorf("WaitTimeout = %v, want 15s", s.WaitTimeout.Duration())
	}
	if s.NavigationTimeout.Duration() != 30*time.Second {
		t.Errorf("NavigationTimeout = %v, want 30s", s.NavigationTimeout.Duration())
	}
	if s.Limit != 10 {
		t.Errorf("Limit = %d, want 10", s.Limit)
	}
	if s.MarkerValue() != "English" {
		t.Errorf("MarkerValue() = %q, want English", s.MarkerValue())
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Port != 8080 || cfg.Scraper.Limit != 10 {
		t.Errorf("unexpected default config: %+v", cfg)
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
title: Scores
host: 127.0.0.1
port: 9000
admin_port: 9001
refresh_interval: 30s
time_format: "15:04"

scraper:
  driver: http
  url: http://localhost:8081/results
  table_selector: "#results"
  row_selector: tr
  wait_timeout: 5s
  navigation_timeout: 10s
  limit: 3
  marker: Italian
  chrome_path: /usr/bin/chromium
  user_agent: resultboard/1.0
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Title != "Scores" || cfg.Host != "127.0.0.1" || cfg.Port != 9000 || cfg.AdminPort != 9001 {
		t.Errorf("unexpected top-level config: %+v", cfg)
	}
	if cfg.RefreshInterval.Duration() != 30*time.Second {
		t.Errorf("RefreshInterval = %v, want 30s", cfg.RefreshInterval.Duration())
	}
	if cfg.TimeFormat != "15:04" {
		t.Errorf("TimeFormat = %q", cfg.TimeFormat)
	}

	s := cfg.Scraper
	if s.Driver != "http" || s.URL != "http://localhost:8081/results" {
		t.Errorf("driver/url = %q, %q", s.Driver, s.URL)
	}
	if s.TableSelector != "#results" || s.RowSelector != "tr" {
		t.Errorf("selectors = %q, %q", s.TableSelector, s.RowSelector)
	}
	if s.WaitTimeout.Duration() != 5*time.Second || s.NavigationTimeout.Duration() != 10*time.Second {
		t.Errorf("timeouts = %v, %v", s.WaitTimeout.Duration(), s.NavigationTimeout.Duration())
	}
	if s.Limit != 3 || s.MarkerValue() != "Italian" {
		t.Errorf("limit/marker = %d, %q", s.Limit, s.MarkerValue())
	}
	if s.ChromePath != "/usr/bin/chromium" || s.UserAgent != "resultboard/1.0" {
		t.Errorf("chrome_path/user_agent = %q, %q", s.ChromePath, s.UserAgent)
	}
}

func TestParse_EmptyMarkerKeepsAllRows(t *testing.T) {
	cfg, err := Parse([]byte("scraper:\n  marker: \"\"\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Scraper.Marker == nil {
		t.Fatal("explicit empty marker should be preserved")
	}
	if got := cfg.Scraper.MarkerValue(); got != "" {
		t.Errorf("MarkerValue() = %q, want empty", got)
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("TEST_RESULTS_HOST", "results.test.com")
	t.Setenv("TEST_CHROME", "/opt/chrome/chrome")

	yaml := `
scraper:
  url: https://${TEST_RESULTS_HOST}/virtual-sports
  chrome_path: ${TEST_CHROME}
  user_agent: ${UNSET_UA_VAR:-resultboard}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Scraper.URL != "https://results.test.com/virtual-sports" {
		t.Errorf("URL = %q", cfg.Scraper.URL)
	}
	if cfg.Scraper.ChromePath != "/opt/chrome/chrome" {
		t.Errorf("ChromePath = %q", cfg.Scraper.ChromePath)
	}
	if cfg.Scraper.UserAgent != "resultboard" {
		t.Errorf("UserAgent = %q", cfg.Scraper.UserAgent)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	// MISSING_RESULTS_VAR is expected to not exist in the environment
	_, err := Parse([]byte("scraper:\n  url: https://${MISSING_RESULTS_VAR}/results\n"))
	if err == nil {
		t.Fatal("Parse() expected error for missing env var, got nil")
	}
	if !strings.Contains(err.Error(), "MISSING_RESULTS_VAR") || !strings.Contains(err.Error(), "scraper.url") {
		t.Errorf("error should name the field and variable: %v", err)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"port too high", "port: 70000", "port must be between 1 and 65535"},
		{"port negative", "port: -1", "port must be between 1 and 65535"},
		{"admin port negative", "admin_port: -2", "admin_port must be between 0 and 65535"},
		{"admin port equals port", "port: 9000\nadmin_port: 9000", "admin_port must differ"},
		{"refresh too short", "refresh_interval: 500ms", "refresh_interval must be at least 1s"},
		{"refresh negative", "refresh_interval: -5s", "refresh_interval must be at least 1s"},
		{"unknown driver", "scraper:\n  driver: firefox", "scraper.driver must be chrome or http"},
		{"ftp url", "scraper:\n  url: ftp://example.com/results", "scraper.url scheme must be http or https"},
		{"url without scheme", "scraper:\n  url: example.com/results", "scraper.url scheme must be http or https"},
		{"url without host", "scraper:\n  url: \"http:///results\"", "scraper.url must include a host"},
		{"blank selector", "scraper:\n  table_selector: \"  \"", "cannot be blank"},
		{"negative wait", "scraper:\n  wait_timeout: -1s", "scraper.wait_timeout cannot be negative"},
		{"negative navigation", "scraper:\n  navigation_timeout: -1s", "scraper.navigation_timeout cannot be negative"},
		{"negative limit", "scraper:\n  limit: -4", "scraper.limit must be positive"},
		{"missing env in chrome path", "scraper:\n  chrome_path: ${NO_SUCH_CHROME_VAR}", "scraper.chrome_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Parse() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("port: [not a number"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("error = %v, want YAML parse error", err)
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte("refresh_interval: soon"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error = %v, want invalid duration", err)
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"refresh_interval: 1s", time.Second},
		{"refresh_interval: 90s", 90 * time.Second},
		{"refresh_interval: 2m", 2 * time.Minute},
		{"refresh_interval: 1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := cfg.RefreshInterval.Duration(); got != tt.want {
				t.Errorf("RefreshInterval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "value")
	t.Setenv("EMPTY_VAR", "") // set but empty

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no vars", "plain text", "plain text", false},
		{"simple var", "${TEST_VAR}", "value", false},
		{"var in text", "prefix ${TEST_VAR} suffix", "prefix value suffix", false},
		{"multiple vars", "${TEST_VAR}-${TEST_VAR}", "value-value", false},
		{"with default (var set)", "${TEST_VAR:-default}", "value", false},
		{"with default (var unset)", "${UNSET:-default}", "default", false},
		{"missing required", "${MISSING}", "", true},
		{"empty default (var unset)", "${UNSET:-}", "", false},
		{"set but empty var", "${EMPTY_VAR}", "", false},
		{"set but empty with default", "${EMPTY_VAR:-fallback}", "", false}, // set var takes precedence
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// UNSET and MISSING are expected to not exist in environment
			got, err := expandEnvVars(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expandEnvVars() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvVars() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resultboard.yaml")
	if err := os.WriteFile(path, []byte("port: 9191\nscraper:\n  limit: 5\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9191 || cfg.Scraper.Limit != 5 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %v, want read error", err)
	}
}
