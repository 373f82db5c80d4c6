package fetch

import (
	"context"
	"errors"
	"net/http"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rmaksimov/founderscout/internal/model"
	"github.com/sirupsen/logrus"
)

// RenderedFetcher retrieves script-rendered pages through a headless
// Chrome instance. One browser context (and its cookie jar) is shared
// by every fetch of the run, so Fetch must not be called concurrently.
type RenderedFetcher struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
	cfg        model.BrowserConfig
	userAgent  string
	session    *Session
	log        *logrus.Entry
}

// NewRenderedFetcher starts the browser and loads the optional session
// snapshot. A browser start failure is returned as KindUnavailable:
// the run cannot proceed without the engine.
func NewRenderedFetcher(cfg model.BrowserConfig, userAgent string) (*RenderedFetcher, error) {
	session, err := LoadSession(cfg.SessionFile)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	f := &RenderedFetcher{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{cancelBrowser, cancelAlloc},
		cfg:        cfg,
		userAgent:  userAgent,
		session:    session,
		log:        logrus.WithField("component", "fetch.rendered"),
	}

	// Starting the browser eagerly surfaces a missing Chrome binary
	// before any source is processed.
	if err := chromedp.Run(browserCtx); err != nil {
		f.Close()
		return nil, &FetchError{Kind: KindUnavailable, Err: err}
	}

	if session.CookieCount() > 0 {
		if err := chromedp.Run(browserCtx, network.SetCookies(session.cookies)); err != nil {
			f.log.WithError(err).Warn("failed to restore session cookies")
		} else {
			f.log.WithField("cookies", session.CookieCount()).Info("restored session")
		}
	}

	return f, nil
}

// Fetch navigates to url in a fresh tab, waits for the readiness
// condition plus the settle delay, and returns the rendered DOM.
func (f *RenderedFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.cfg.NavTimeout)
	defer cancelTimeout()

	// Honor caller cancellation alongside the navigation timeout
	go func() {
		select {
		case <-ctx.Done():
			cancelTimeout()
		case <-tabCtx.Done():
		}
	}()

	var rawHTML string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(f.cfg.SettleDelay),
		chromedp.OuterHTML("html", &rawHTML, chromedp.ByQuery),
	)
	if err != nil {
		kind := KindNavigation
		if errors.Is(err, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return nil, &FetchError{URL: url, Kind: kind, Err: err}
	}

	meta := Meta{StatusCode: http.StatusOK, Rendered: true}
	return NewPage(rawHTML, url, meta)
}

// Close shuts the browser down
func (f *RenderedFetcher) Close() error {
	for _, cancel := range f.cancels {
		cancel()
	}
	return nil
}

var _ Fetcher = (*RenderedFetcher)(nil)
