package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nbxlive/resultboard"
)

func main() {
	// start mock results page (see mock_server.go)
	go StartMockResultsServer(":9999")
	time.Sleep(100 * time.Millisecond)

	board, err := resultboard.New(
		resultboard.WithDriver(resultboard.DriverHTTP),
		resultboard.WithSourceURL("http://localhost:9999/virtual-sports"),
		resultboard.WithRefreshInterval(5*time.Second),
		resultboard.WithResultLimit(5),
		resultboard.WithTitle("NBX Live Results (demo)"),
		resultboard.WithPort(8080),
		resultboard.WithAdminPort(8081),
		resultboard.WithRefreshCallback(func(s resultboard.Snapshot) {
			if s.Failed {
				slog.Warn("demo refresh failed", "error", s.Entries[0])
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create resultboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  resultboard demo")
	fmt.Println()
	fmt.Println("  Results page:  http://localhost:8080")
	fmt.Println("  Health:        http://localhost:8081/healthz")
	fmt.Println("  Metrics:       http://localhost:8081/metrics")
	fmt.Println()
	fmt.Println("  Scraping a mock page on :9999 every 5s (first 5 English results)")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := board.Start(ctx); err != nil {
		slog.Error("resultboard error", "error", err)
		os.Exit(1)
	}
}
