package catalog

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// FetcherConfig controls collector behavior and request pacing.
type FetcherConfig struct {
	UserAgent string
	Timeout   time.Duration
	DelayMin  time.Duration
	DelayMax  time.Duration
}

// Fetcher retrieves a catalog page and returns it parsed for selector lookups.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*goquery.Document, error)
}

// CollyFetcher implements Fetcher using a synchronous Colly collector. Every
// successful fetch is followed by a random pause within the configured bounds
// to throttle the request rate.
type CollyFetcher struct {
	cfg           FetcherConfig
	baseCollector *colly.Collector
	pause         sleeper
	logger        *zap.Logger
}

// NewCollyFetcher builds a Fetcher that issues one blocking GET per call.
func NewCollyFetcher(cfg FetcherConfig, logger *zap.Logger) *CollyFetcher {
	c := colly.NewCollector(colly.Async(false))
	c.AllowURLRevisit = true
	c.WithTransport(newHTTPTransport())
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	c.SetRequestTimeout(timeout)

	return &CollyFetcher{
		cfg:           cfg,
		baseCollector: c,
		pause:         timerSleeper{},
		logger:        logger,
	}
}

// Fetch executes a single HTTP GET and parses the body into a goquery
// document. Transport failures and non-2xx statuses come back as a
// *RequestError; there is no retry.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	var (
		body     []byte
		fetchErr error
	)
	collector := f.baseCollector.Clone()

	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := f.runCollector(ctx, collector, rawURL, &fetchErr); err != nil {
		return nil, &RequestError{URL: rawURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	f.logger.Debug("Fetched page", zap.String("url", rawURL), zap.Int("bytes", len(body)))

	f.pause.Sleep(ctx, randomDelay(f.cfg.DelayMin, f.cfg.DelayMax))
	return doc, nil
}

func (f *CollyFetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return err
		}
		return *fetchErr
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
