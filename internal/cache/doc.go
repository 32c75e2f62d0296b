// Package cache holds the latest published result set for the dashboard.
//
// The cache has exactly one writer (the refresh loop) and any number of
// readers (HTTP handlers). The main components are:
//
//   - [Store]: interface with the two access methods, Publish and Snapshot
//   - [MemoryStore]: lock-free implementation backed by an atomic pointer
//
// Readers always get a private copy of a complete set. A reader racing a
// publish sees either the old set or the new one, never a mix of both.
package cache
