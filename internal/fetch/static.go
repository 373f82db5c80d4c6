package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rmaksimov/founderscout/internal/cache"
	"github.com/rmaksimov/founderscout/internal/model"
	"github.com/rmaksimov/founderscout/internal/util"
	"github.com/sirupsen/logrus"
)

// StaticFetcher retrieves pages with a plain HTTP GET. It checks
// robots.txt, caches response bodies, and caps redirects and body size.
type StaticFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	pageCache  cache.Cache
	robots     *util.RobotsChecker
	log        *logrus.Entry
}

// NewStaticFetcher creates a static fetcher from the HTTP and cache
// configuration. pageCache and robots may be nil to disable them.
func NewStaticFetcher(cfg model.HTTPConfig, pageCache cache.Cache) *StaticFetcher {
	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(util.NormalizeUserAgent(cfg.UserAgent), cfg.Timeout)
	}

	return &StaticFetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		pageCache: pageCache,
		robots:    robots,
		log:       logrus.WithField("component", "fetch.static"),
	}
}

// Fetch retrieves and parses the page at url
func (f *StaticFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if f.pageCache != nil {
		if body, found := f.pageCache.Get(cache.PageKey(url)); found {
			f.log.WithField("url", url).Debug("page cache hit")
			return NewPage(string(body), url, Meta{StatusCode: http.StatusOK, FromCache: true})
		}
	}

	if f.robots != nil && !f.robots.IsAllowed(ctx, url) {
		return nil, &FetchError{URL: url, Kind: KindRobots, Err: errors.New("disallowed by robots.txt")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Kind: KindNetwork, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		kind := KindNetwork
		if errors.Is(err, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return nil, &FetchError{URL: url, Kind: kind, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{
			URL:  url,
			Kind: KindStatus,
			Err:  fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, &FetchError{URL: url, Kind: KindNetwork, Err: fmt.Errorf("read body: %w", err)}
	}

	finalURL := resp.Request.URL.String()

	if f.pageCache != nil {
		if err := f.pageCache.Set(cache.PageKey(url), body, 0); err != nil {
			f.log.WithField("url", url).WithError(err).Warn("page cache write failed")
		}
	}

	meta := Meta{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	return NewPage(string(body), finalURL, meta)
}

// Close implements Fetcher; the static fetcher holds no resources
// beyond idle connections.
func (f *StaticFetcher) Close() error {
	f.httpClient.CloseIdleConnections()
	return nil
}

var _ Fetcher = (*StaticFetcher)(nil)
