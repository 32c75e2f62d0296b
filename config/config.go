// Package config provides YAML configuration parsing for resultboard.
//
// This package enables running resultboard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
// Every key is optional.
//
// Example configuration:
//
//	title: NBX Live Results
//	host: 0.0.0.0
//	port: 8080
//	admin_port: 9090
//	refresh_interval: 60s
//	time_format: "15:04:05"
//
//	scraper:
//	  driver: chrome
//	  url: https://www.betpawa.ug/virtual-sports?virtualTab=results
//	  table_selector: .v-results-table
//	  row_selector: .v-result-row
//	  wait_timeout: 15s
//	  navigation_timeout: 30s
//	  limit: 10
//	  marker: English
//	  chrome_path: ${CHROME_PATH:-}
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// minRefreshInterval keeps a misconfigured file from hammering the source.
	minRefreshInterval = 1 * time.Second

	defaultTitle             = "NBX Live Results"
	defaultHost              = "0.0.0.0"
	defaultPort              = 8080
	defaultRefreshInterval   = 60 * time.Second
	defaultTimeFormat        = "15:04:05"
	defaultDriver            = "chrome"
	defaultURL               = "https://www.betpawa.ug/virtual-sports?virtualTab=results"
	defaultTableSelector     = ".v-results-table"
	defaultRowSelector       = ".v-result-row"
	defaultWaitTimeout       = 15 * time.Second
	defaultNavigationTimeout = 30 * time.Second
	defaultLimit             = 10
	defaultMarker            = "English"
)

// Config is the root configuration structure for resultboard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the page title. Defaults to "NBX Live Results".
	Title string `yaml:"title"`

	// Host is the interface to bind. Defaults to 0.0.0.0.
	Host string `yaml:"host"`

	// Port is the HTTP port for the results page. Defaults to 8080.
	Port int `yaml:"port"`

	// AdminPort serves /healthz and /metrics when non-zero.
	AdminPort int `yaml:"admin_port"`

	// RefreshInterval is the pause between refreshes. Defaults to 60s.
	RefreshInterval Duration `yaml:"refresh_interval"`

	// TimeFormat is the Go layout for "Last Updated". Defaults to "15:04:05".
	TimeFormat string `yaml:"time_format"`

	// Scraper configures how results are fetched.
	Scraper ScraperConfig `yaml:"scraper"`
}

// ScraperConfig configures the page driver and row filtering.
type ScraperConfig struct {
	// Driver is "chrome" (default) or "http".
	Driver string `yaml:"driver"`

	// URL is the results page.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	TableSelector string `yaml:"table_selector"`
	RowSelector   string `yaml:"row_selector"`

	// WaitTimeout bounds how long to wait for the results table. Defaults to 15s.
	WaitTimeout Duration `yaml:"wait_timeout"`

	// NavigationTimeout bounds page navigation in Chrome. Defaults to 30s.
	NavigationTimeout Duration `yaml:"navigation_timeout"`

	// Limit is how many leading rows are considered before the marker
	// filter. Defaults to 10.
	Limit int `yaml:"limit"`

	// Marker is the substring a row must contain. Defaults to "English";
	// an explicit empty string keeps every row.
	Marker *string `yaml:"marker"`

	// ChromePath is the browser executable. Supports environment variables.
	ChromePath string `yaml:"chrome_path"`

	// UserAgent overrides the browser or HTTP client User-Agent.
	UserAgent string `yaml:"user_agent"`
}

// MarkerValue returns the configured marker, or the default when unset.
func (s ScraperConfig) MarkerValue() string {
	if s.Marker == nil {
		return defaultMarker
	}
	return *s.Marker
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return submatches[3]
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		// defaults are constants; failing here is a programming error
		panic(err)
	}
	return cfg
}

// Parse parses YAML configuration data, applies defaults and validates the
// result. Empty input yields the default configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = Duration(defaultRefreshInterval)
	}
	if c.TimeFormat == "" {
		c.TimeFormat = defaultTimeFormat
	}

	s := &c.Scraper
	if s.Driver == "" {
		s.Driver = defaultDriver
	}
	if s.URL == "" {
		s.URL = defaultURL
	}
	if s.TableSelector == "" {
		s.TableSelector = defaultTableSelector
	}
	if s.RowSelector == "" {
		s.RowSelector = defaultRowSelector
	}
	if s.WaitTimeout == 0 {
		s.WaitTimeout = Duration(defaultWaitTimeout)
	}
	if s.NavigationTimeout == 0 {
		s.NavigationTimeout = Duration(defaultNavigationTimeout)
	}
	if s.Limit == 0 {
		s.Limit = defaultLimit
	}
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	var err error

	if c.Host, err = expandEnvVars(c.Host); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.AdminPort < 0 || c.AdminPort > 65535 {
		return fmt.Errorf("admin_port must be between 0 and 65535, got %d", c.AdminPort)
	}
	if c.AdminPort == c.Port {
		return fmt.Errorf("admin_port must differ from port %d", c.Port)
	}
	if c.RefreshInterval.Duration() < minRefreshInterval {
		return fmt.Errorf("refresh_interval must be at least %s, got %s", minRefreshInterval, c.RefreshInterval.Duration())
	}

	s := &c.Scraper

	switch s.Driver {
	case "chrome", "http":
	default:
		return fmt.Errorf("scraper.driver must be chrome or http, got %q", s.Driver)
	}

	if s.URL, err = expandEnvVars(s.URL); err != nil {
		return fmt.Errorf("scraper.url: %w", err)
	}
	parsedURL, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("scraper.url: invalid url: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("scraper.url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("scraper.url must include a host")
	}

	if strings.TrimSpace(s.TableSelector) == "" || strings.TrimSpace(s.RowSelector) == "" {
		return fmt.Errorf("scraper.table_selector and scraper.row_selector cannot be blank")
	}
	if s.WaitTimeout.Duration() < 0 {
		return fmt.Errorf("scraper.wait_timeout cannot be negative, got %s", s.WaitTimeout.Duration())
	}
	if s.NavigationTimeout.Duration() < 0 {
		return fmt.Errorf("scraper.navigation_timeout cannot be negative, got %s", s.NavigationTimeout.Duration())
	}
	if s.Limit < 0 {
		return fmt.Errorf("scraper.limit must be positive, got %d", s.Limit)
	}

	if s.ChromePath, err = expandEnvVars(s.ChromePath); err != nil {
		return fmt.Errorf("scraper.chrome_path: %w", err)
	}
	if s.UserAgent, err = expandEnvVars(s.UserAgent); err != nil {
		return fmt.Errorf("scraper.user_agent: %w", err)
	}

	return nil
}
