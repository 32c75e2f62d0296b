// Package refresh runs the background loop that keeps the result cache
// current.
//
// The loop is the cache's only writer. It fetches, publishes, then sleeps a
// fixed interval, so two fetches never overlap and failures are retried on
// the same schedule as successes.
//
// Users of the resultboard library should not need to interact with this
// package directly. The loop is started by [resultboard.Board.Start].
package refresh
