package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nbxlive/resultboard"
	"github.com/nbxlive/resultboard/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// parseLevel maps a --log-level value to a slog level.
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", s)
	}
	return level, nil
}

// newLogger creates a JSON logger for CLI use.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// serveCmd starts the results page server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start scraping and serving results",
	Long: `Start the resultboard server.

The server will:
  - Load configuration from the given YAML file, or use defaults
  - Serve the results page immediately, showing a placeholder until the
    first scrape completes
  - Scrape the results page now and then once per refresh interval

The PORT environment variable overrides the configured port. With --watch,
changes to the scraper selectors, wait_timeout, limit and marker in the
config file are applied without a restart.

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  resultboard serve
  resultboard serve -c config.yaml --watch --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
	serveCmd.Flags().BoolP("watch", "w", false, "reload scrape settings when the config file changes")
	serveCmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg = config.Default()
	} else if cfg, err = config.Load(path); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	levelFlag, _ := cmd.Flags().GetString("log-level")
	level, err := parseLevel(levelFlag)
	if err != nil {
		return err
	}
	logger := newLogger(level)

	configFile, _ := cmd.Flags().GetString("config")
	watch, _ := cmd.Flags().GetBool("watch")
	if watch && configFile == "" {
		return fmt.Errorf("--watch requires --config")
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	logger.Info("config loaded",
		"source", cfg.Scraper.URL,
		"driver", cfg.Scraper.Driver,
		"port", cfg.Port,
		"refresh_interval", cfg.RefreshInterval.Duration().String(),
	)

	board, err := resultboard.New(config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watch {
		go func() {
			err := config.Watch(ctx, configFile, logger, func(next *config.Config) {
				if err := board.UpdateScrape(config.BuildScrapeSettings(next)); err != nil {
					logger.Error("failed to apply reloaded config", "error", err)
				}
			})
			if err != nil {
				logger.Error("config watch stopped", "error", err)
			}
		}()
	}

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- board.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
