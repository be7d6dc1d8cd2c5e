package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/letaky-tools/letaky/internal/brochure"
	"github.com/letaky-tools/letaky/internal/config"
	"github.com/letaky-tools/letaky/internal/logger"
)

// maxPageSize caps how much of a response body is read
const maxPageSize = 10 << 20

// Scraper fetches the shop directory and extracts active brochures
type Scraper struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	maxRetries int
	workers    int
	wantShop   func(name string) bool

	limiter    *hostLimiter
	newBackOff func() backoff.BackOff
	resolver   *brochure.Resolver
	metrics    *logger.Metrics
	now        func() time.Time
}

// Result is the outcome of a full run
type Result struct {
	Brochures   []*brochure.Brochure
	ShopURLs    []string
	FailedShops []string
}

// New creates a Scraper from cfg
func New(cfg *config.Config) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		workers:    cfg.Workers,
		wantShop:   cfg.WantsShop,
		limiter:    newHostLimiter(cfg.PolitenessDelay),
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		resolver:   brochure.NewResolver(cfg.Location),
		metrics:    logger.DefaultMetrics(),
		now:        time.Now,
	}
}

// Run scrapes every shop in the directory and returns the active brochures.
// A failed directory fetch aborts the run; a failed shop is logged and skipped.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	links, err := s.FetchShopLinks(ctx)
	if err != nil {
		return nil, err
	}

	shops := make([]string, 0, len(links))
	for _, link := range links {
		if s.wantShop(ShopName(link)) {
			shops = append(shops, link)
		}
	}
	s.metrics.SetGauge("shops.found", float64(len(shops)))
	logger.Info("Found shops", logger.Fields{
		"total":    len(links),
		"selected": len(shops),
	})

	now := s.now()
	perShop := make([][]*brochure.Brochure, len(shops))
	failed := make([]bool, len(shops))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, shopURL := range shops {
		i, shopURL := i, shopURL
		g.Go(func() error {
			brochures, err := s.ScrapeShop(gctx, shopURL, now)
			if err != nil {
				failed[i] = true
				s.metrics.IncrCounter("shops.failed")
				logger.Error("Failed to scrape shop", logger.Fields{"url": shopURL}, err)
				return nil
			}
			perShop[i] = brochures
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scrape interrupted: %w", err)
	}

	result := &Result{
		Brochures:   make([]*brochure.Brochure, 0),
		ShopURLs:    shops,
		FailedShops: make([]string, 0),
	}
	for i, brochures := range perShop {
		if failed[i] {
			result.FailedShops = append(result.FailedShops, shops[i])
			continue
		}
		result.Brochures = append(result.Brochures, brochures...)
	}

	return result, nil
}

// FetchShopLinks fetches the directory page and returns the shop URLs it links to
func (s *Scraper) FetchShopLinks(ctx context.Context) ([]string, error) {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	logger.Info("Fetching shop directory", logger.Fields{"url": s.baseURL})
	body, err := s.fetch(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetching shop directory: %w", err)
	}

	return ParseShopLinks(bytes.NewReader(body), base)
}

// ScrapeShop fetches one shop page and returns its brochures active at now
func (s *Scraper) ScrapeShop(ctx context.Context, shopURL string, now time.Time) ([]*brochure.Brochure, error) {
	start := time.Now()
	shopName := ShopName(shopURL)

	logger.Info("Scraping brochures", logger.Fields{
		"shop": shopName,
		"url":  shopURL,
	})

	body, err := s.fetch(ctx, shopURL)
	if err != nil {
		return nil, fmt.Errorf("fetching shop page: %w", err)
	}

	brochures, err := s.ParseBrochures(bytes.NewReader(body), shopName, now)
	if err != nil {
		return nil, fmt.Errorf("parsing shop page: %w", err)
	}

	s.metrics.IncrCounter("shops.scraped")
	s.metrics.RecordTiming("scrape.shop", time.Since(start))
	logger.Debug("Scraped shop", logger.Fields{
		"shop":      shopName,
		"brochures": len(brochures),
	})

	return brochures, nil
}

// statusError is a non-200 response
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

// retryable reports whether a response status is worth another attempt
func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// fetch GETs rawURL and returns the body, honouring the politeness delay.
// Network errors, 429 and 5xx are retried with exponential backoff.
func (s *Scraper) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	attempt := 0

	operation := func() error {
		attempt++
		if err := s.limiter.Wait(ctx, rawURL); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", s.userAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			// Drain so the connection can be reused
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageSize))
			err := &statusError{code: resp.StatusCode}
			if retryable(resp.StatusCode) {
				return err
			}
			return backoff.Permanent(err)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(s.maxRetries)), ctx)
	notify := func(err error, wait time.Duration) {
		logger.Warn("Retrying request", logger.Fields{
			"url":     rawURL,
			"attempt": attempt,
			"wait":    wait.String(),
		}, err)
	}

	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, err
	}

	return body, nil
}
