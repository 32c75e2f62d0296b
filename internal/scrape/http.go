package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

const maxPageSize = 5 << 20 // 5MB

// HTTPDriver loads pages with a plain GET and no JavaScript.
//
// It suits server-rendered pages and local mirrors. The underlying client is
// retryablehttp with retries disabled: a failed attempt is reported as-is and
// the next refresh tries again.
type HTTPDriver struct {
	client    *retryablehttp.Client
	userAgent string
}

// NewHTTPDriver creates an [HTTPDriver]. A nil logger disables client logging.
func NewHTTPDriver(userAgent string, logger *slog.Logger) *HTTPDriver {
	c := retryablehttp.NewClient()
	c.RetryMax = 0
	c.CheckRetry = noRetry
	// hand failed responses back so status codes are reported verbatim
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = nil
	if logger != nil {
		c.Logger = logger
	}
	return &HTTPDriver{client: c, userAgent: userAgent}
}

// noRetry accepts every response as final. Status handling stays with the
// caller; the default policy would turn a 5xx into a client error.
func noRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	return false, ctx.Err()
}

// Open returns a session sharing the driver's connection pool.
func (d *HTTPDriver) Open(_ context.Context) (Session, error) {
	return &httpSession{driver: d}, nil
}

type httpSession struct {
	driver *HTTPDriver
}

func (s *httpSession) Rows(ctx context.Context, t Target) ([]string, error) {
	if t.Wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Wait)
		defer cancel()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if s.driver.userAgent != "" {
		req.Header.Set("User-Agent", s.driver.userAgent)
	}

	resp, err := s.driver.client.Do(req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, classify(err, KindTransport, "failed to load %s", t.URL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	return extractRows(io.LimitReader(resp.Body, maxPageSize), t.TableSelector, t.RowSelector)
}

func (s *httpSession) Close() error {
	s.driver.client.HTTPClient.CloseIdleConnections()
	return nil
}
