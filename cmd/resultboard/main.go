// Package main is the entry point for the resultboard CLI.
//
// resultboard can be run either as a library (SDK) or as a standalone binary
// with optional YAML configuration. This CLI provides the standalone binary.
//
// Usage:
//
//	resultboard serve                      # Scrape with defaults on :8080
//	resultboard serve -c config.yaml       # Start with a config file
//	resultboard serve -c config.yaml -w    # Reload scrape settings on change
//	resultboard validate -c config.yaml    # Validate configuration
//	resultboard version                    # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "resultboard",
	Short: "A live virtual-sports results page",
	Long: `resultboard scrapes a virtual-sports results page on a schedule and
serves the latest English-league results as a small mobile-friendly page.

Quick start:
  1. Run: resultboard serve
  2. Open http://localhost:8080 in your browser

Headless Chrome must be installed for the default driver. Use
"scraper.driver: http" in a config file for server-rendered pages.

Example config:
  port: 8080
  refresh_interval: 60s
  scraper:
    limit: 10
    marker: English`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this resultboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "resultboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
