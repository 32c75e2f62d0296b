package resultboard

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// resultsPage mimics the rendered virtual-sports results table.
const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="v-results-table">
  <div class="v-result-row"><span>English League</span>
  <span>Arsenal 2 - 1 Chelsea</span></div>
  <div class="v-result-row"><span>French League</span> <span>Lyon 0 - 0 Nice</span></div>
  <div class="v-result-row"><span>English League</span>
  <span>Leeds 3 - 3 Everton</span></div>
</div>
</body></html>`

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// resultsSource serves page and counts requests.
type resultsSource struct {
	*httptest.Server
	hits atomic.Int32
}

func newResultsSource(t *testing.T, status int, page string) *resultsSource {
	t.Helper()
	src := &resultsSource{}
	src.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		src.hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, page)
	}))
	t.Cleanup(src.Close)
	return src
}

// freePort returns a port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

// httpBoardOptions returns options for a board scraping src over plain HTTP
// on a local port.
func httpBoardOptions(t *testing.T, src *resultsSource, extra ...Option) []Option {
	t.Helper()
	opts := []Option{
		WithDriver(DriverHTTP),
		WithSourceURL(src.URL),
		WithHost("127.0.0.1"),
		WithPort(freePort(t)),
		WithRefreshInterval(50 * time.Millisecond),
		WithFetchTimeout(time.Second),
		WithLogger(testLogger()),
	}
	return append(opts, extra...)
}

// getBody fetches url and returns the body, or "" on error.
func getBody(url string) string {
	resp, err := http.Get(url)
	if err != nil {
		return ""
	}
	defer func() { _ = resp.Body.Close() }()
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

// waitForBody polls url until the body contains want.
func waitForBody(t *testing.T, url, want string) string {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	var body string
	for time.Now().Before(deadline) {
		body = getBody(url)
		if strings.Contains(body, want) {
			return body
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q at %s, last body: %s", want, url, body)
	return ""
}

func pageURL(b *Board) string {
	return fmt.Sprintf("http://127.0.0.1:%d/", b.Port())
}
