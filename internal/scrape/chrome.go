package scrape

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeOptions configures the headless browser.
type ChromeOptions struct {
	// ExecPath is the Chrome/Chromium binary. Empty means search the usual
	// install locations.
	ExecPath string

	// UserAgent overrides the browser's user agent when set.
	UserAgent string
}

// ChromeDriver loads pages in headless Chrome through chromedp.
//
// Each session starts its own browser process and kills it on Close, so no
// browser state leaks from one refresh into the next.
type ChromeDriver struct {
	opts ChromeOptions
}

// NewChromeDriver creates a [ChromeDriver].
func NewChromeDriver(opts ChromeOptions) *ChromeDriver {
	return &ChromeDriver{opts: opts}
}

// Open launches a browser. The browser lives until Close or until ctx is
// cancelled, whichever comes first.
func (d *ChromeDriver) Open(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)
	if d.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(d.opts.ExecPath))
	}
	if d.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(d.opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	sess := &chromeSession{
		ctx: browserCtx,
		release: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}

	// an empty Run starts the browser, so launch failures surface here
	if err := chromedp.Run(browserCtx); err != nil {
		_ = sess.Close()
		return nil, classify(err, KindTransport, "failed to start browser")
	}
	return sess, nil
}

type chromeSession struct {
	ctx     context.Context
	release func()
	once    sync.Once
}

func (s *chromeSession) Rows(ctx context.Context, t Target) ([]string, error) {
	navCtx, cancelNav := s.bounded(ctx, t.NavigationTimeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx, chromedp.Navigate(t.URL)); err != nil {
		return nil, classify(err, KindTransport, "failed to load %s", t.URL)
	}

	waitCtx, cancelWait := s.bounded(ctx, t.Wait)
	defer cancelWait()

	var html string
	err := chromedp.Run(waitCtx,
		chromedp.WaitReady(t.TableSelector, chromedp.ByQuery),
		chromedp.OuterHTML(t.TableSelector, &html, chromedp.ByQuery),
	)
	if err != nil {
		if KindOf(err) == KindTimeout {
			return nil, classify(err, KindTimeout, "element %q did not appear within %s", t.TableSelector, t.Wait)
		}
		return nil, classify(err, KindParse, "failed to read %q", t.TableSelector)
	}

	return extractRows(strings.NewReader(html), t.TableSelector, t.RowSelector)
}

// bounded derives a context from the browser context that expires after d and
// also ends when the caller's ctx does. Cancelling it does not close the tab.
// A non-positive d means no bound.
func (s *chromeSession) bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	var (
		bctx   context.Context
		cancel context.CancelFunc
	)
	if d > 0 {
		bctx, cancel = context.WithTimeout(s.ctx, d)
	} else {
		bctx, cancel = context.WithCancel(s.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return bctx, func() {
		stop()
		cancel()
	}
}

func (s *chromeSession) Close() error {
	s.once.Do(s.release)
	return nil
}
