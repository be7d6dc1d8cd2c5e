package scraper

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiter spaces requests to the same host by a fixed interval.
// The first request to a host is not delayed.
type hostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

func newHostLimiter(interval time.Duration) *hostLimiter {
	return &hostLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until a request to rawURL's host is allowed or ctx is done
func (h *hostLimiter) Wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Host == "" {
		return &url.Error{Op: "parse", URL: rawURL, Err: errors.New("missing host in URL")}
	}

	return h.forHost(u.Host).Wait(ctx)
}

func (h *hostLimiter) forHost(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	if l, ok := h.limiters[host]; ok {
		return l
	}

	limit := rate.Inf
	if h.interval > 0 {
		limit = rate.Every(h.interval)
	}
	l := rate.NewLimiter(limit, 1)
	h.limiters[host] = l
	return l
}
