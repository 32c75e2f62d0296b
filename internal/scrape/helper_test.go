package scrape

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDriver hands out fakeSessions and records how many were opened and closed.
type fakeDriver struct {
	mu      sync.Mutex
	rows    []string
	rowsErr error
	openErr error
	panics  bool
	opened  int
	closed  int
	target  Target
}

func (d *fakeDriver) Open(_ context.Context) (Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.opened++
	return &fakeSession{driver: d}, nil
}

func (d *fakeDriver) counts() (opened, closed int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened, d.closed
}

type fakeSession struct {
	driver *fakeDriver
}

func (s *fakeSession) Rows(_ context.Context, t Target) ([]string, error) {
	s.driver.mu.Lock()
	s.driver.target = t
	panics, rows, err := s.driver.panics, s.driver.rows, s.driver.rowsErr
	s.driver.mu.Unlock()

	if panics {
		panic("selector engine exploded")
	}
	return rows, err
}

func (s *fakeSession) Close() error {
	s.driver.mu.Lock()
	defer s.driver.mu.Unlock()
	s.driver.closed++
	return nil
}
