package driven

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
)

// RateLimitStatus is the remote API's view of the request window for
// the status-lookup endpoint.
type RateLimitStatus struct {
	// Limit is the total requests allowed per window.
	Limit int
	// Remaining is how many requests are left in this window.
	Remaining int
	// Reset is when the window resets.
	Reset time.Time
}

// StatusFetcher fetches a single status by id from the remote API.
// Implementations own rate-limit waiting: a call may block until the
// reported reset time passes, bounded by the context.
type StatusFetcher interface {
	// FetchStatus returns the normalised item plus the verbatim
	// response body. A non-success API status comes back as a
	// *FetchError; any other error is infrastructure failure.
	FetchStatus(ctx context.Context, id int64) (*domain.Item, []byte, error)

	// RateLimitStatus returns the most recently observed window state.
	RateLimitStatus() RateLimitStatus
}

// FetchError is a non-success response from the remote API. It is
// recovered locally by the resolver, never fatal to a run.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fetch failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("fetch failed with status %d: %s", e.StatusCode, e.Message)
}
