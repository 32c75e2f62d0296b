package cache

import (
	"sync/atomic"

	"github.com/nbxlive/resultboard/internal/results"
)

// MemoryStore is an in-memory implementation of [Store].
//
// The current set lives behind an atomic pointer. Publish swaps in a fresh
// copy; the previous set is dropped and left to the garbage collector. No
// history is retained.
type MemoryStore struct {
	current atomic.Pointer[results.Set]
}

// NewMemoryStore creates a store holding the loading placeholder.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{}
	p := results.Placeholder()
	m.current.Store(&p)
	return m
}

// Publish atomically replaces the current set with a copy of set.
func (m *MemoryStore) Publish(set results.Set) {
	cp := set.Clone()
	m.current.Store(&cp)
}

// Snapshot returns a copy of the most recently published set.
func (m *MemoryStore) Snapshot() results.Set {
	return m.current.Load().Clone()
}
