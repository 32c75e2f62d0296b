package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/nbxlive/resultboard"
)

// portEnv overrides the configured port, as set by most container platforms.
const portEnv = "PORT"

// ApplyEnvOverrides applies environment overrides on top of the file.
// Currently only PORT is honoured.
func (c *Config) ApplyEnvOverrides() error {
	raw, ok := os.LookupEnv(portEnv)
	if !ok || raw == "" {
		return nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%s must be a port between 1 and 65535, got %q", portEnv, raw)
	}
	if port == c.AdminPort {
		return fmt.Errorf("%s must differ from admin_port %d", portEnv, c.AdminPort)
	}
	c.Port = port
	return nil
}

// BuildOptions converts parsed configuration into SDK options.
//
// The logger is passed through to the board; it may be nil to use
// [slog.Default].
func BuildOptions(cfg *Config, logger *slog.Logger) []resultboard.Option {
	s := cfg.Scraper
	opts := []resultboard.Option{
		resultboard.WithTitle(cfg.Title),
		resultboard.WithHost(cfg.Host),
		resultboard.WithPort(cfg.Port),
		resultboard.WithAdminPort(cfg.AdminPort),
		resultboard.WithRefreshInterval(cfg.RefreshInterval.Duration()),
		resultboard.WithTimeFormat(cfg.TimeFormat),
		resultboard.WithDriver(resultboard.DriverKind(s.Driver)),
		resultboard.WithSourceURL(s.URL),
		resultboard.WithSelectors(s.TableSelector, s.RowSelector),
		resultboard.WithResultLimit(s.Limit),
		resultboard.WithMarker(s.MarkerValue()),
		resultboard.WithChromePath(s.ChromePath),
		resultboard.WithUserAgent(s.UserAgent),
	}
	if s.WaitTimeout > 0 {
		opts = append(opts, resultboard.WithFetchTimeout(s.WaitTimeout.Duration()))
	}
	if s.NavigationTimeout > 0 {
		opts = append(opts, resultboard.WithNavigationTimeout(s.NavigationTimeout.Duration()))
	}
	if logger != nil {
		opts = append(opts, resultboard.WithLogger(logger))
	}
	return opts
}

// BuildScrapeSettings extracts the settings that can be changed on a running
// board with [resultboard.Board.UpdateScrape].
func BuildScrapeSettings(cfg *Config) resultboard.ScrapeSettings {
	return resultboard.ScrapeSettings{
		TableSelector: cfg.Scraper.TableSelector,
		RowSelector:   cfg.Scraper.RowSelector,
		Wait:          cfg.Scraper.WaitTimeout.Duration(),
		Marker:        cfg.Scraper.MarkerValue(),
		Limit:         cfg.Scraper.Limit,
	}
}
