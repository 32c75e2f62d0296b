// Package server provides the HTTP listeners for the results page.
//
// The public listener serves exactly one route:
//
//   - GET /: the rendered results page, built from the latest cache snapshot
//
// Every other path is answered with 404. When an admin port is configured a
// second listener serves operational endpoints:
//
//   - GET /healthz: JSON summary of the cache and refresh loop
//   - GET /metrics: Prometheus text exposition of refresh statistics
//
// Handlers only read the cache; they never trigger or wait on a refresh.
// Both listeners shut down gracefully when the start context is cancelled,
// with a 5-second timeout for in-flight requests.
//
// Users of the resultboard library should not need to interact with this
// package directly. The server is started by [resultboard.Board.Start].
package server
