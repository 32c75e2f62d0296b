package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbxlive/resultboard/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a resultboard configuration file without starting the server.

This command parses the YAML, expands environment variables, applies
defaults and validates all fields. It's useful for CI/CD pipelines or
pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  resultboard validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Listen:           %s:%d\n", cfg.Host, cfg.Port)
	if cfg.AdminPort != 0 {
		fmt.Fprintf(out, "  Admin port:       %d\n", cfg.AdminPort)
	}
	fmt.Fprintf(out, "  Refresh interval: %s\n", cfg.RefreshInterval.Duration())
	fmt.Fprintf(out, "  Driver:           %s\n", cfg.Scraper.Driver)
	fmt.Fprintf(out, "  Source:           %s\n", cfg.Scraper.URL)
	fmt.Fprintf(out, "  Filter:           rows containing %q among the first %d\n", cfg.Scraper.MarkerValue(), cfg.Scraper.Limit)

	return nil
}
