package twitter

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/retweever-cli/internal/core/ports/driven"
)

const (
	// StatusWindowLimit is the app-auth request limit per 15-minute
	// window on the status-lookup endpoint.
	StatusWindowLimit = 900

	// ProactiveRate is the proactive throttle rate (~1 req/sec, well
	// under the window limit).
	ProactiveRate = 1.0

	// ResetMargin is added to the reported reset wait so the first
	// request after a window roll does not race the server clock.
	ResetMargin = 2 * time.Second

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "x-rate-limit-limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "x-rate-limit-remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "x-rate-limit-reset"
)

// RateLimiter implements dual-strategy rate limiting for the Twitter
// API: a proactive token bucket plus reactive tracking of the window
// headers the API returns. When the reported window is spent, Wait
// sleeps until the reset time plus a safety margin.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
	bucket    *rate.Limiter

	// now and sleep are injectable for tests; waits stay bounded by
	// the caller's context either way.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining: StatusWindowLimit, // Assume full window initially
		limit:     StatusWindowLimit,
		bucket:    rate.NewLimiter(rate.Limit(ProactiveRate), 1),
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wait blocks until it is safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	// 1. Token bucket (proactive throttling)
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	// 2. Reported window (reactive)
	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	r.mu.Unlock()

	if remaining == 0 && !resetTime.IsZero() {
		wait := resetTime.Sub(r.now())
		if wait < 0 {
			wait = 0
		}
		return r.sleep(ctx, wait+ResetMargin)
	}

	return nil
}

// UpdateFromResponse updates window state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}
	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}
	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}
}

// Status returns the most recently observed window state.
func (r *RateLimiter) Status() driven.RateLimitStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return driven.RateLimitStatus{
		Limit:     r.limit,
		Remaining: r.remaining,
		Reset:     r.resetTime,
	}
}
