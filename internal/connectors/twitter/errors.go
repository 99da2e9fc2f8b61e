package twitter

import (
	"errors"
	"fmt"
	"time"
)

// Twitter-specific errors.
var (
	// ErrOverCapacity indicates the service returned its over-capacity
	// HTML page instead of JSON.
	ErrOverCapacity = errors.New("twitter: service over capacity")

	// ErrTechnicalError indicates the service returned its generic
	// error HTML page.
	ErrTechnicalError = errors.New("twitter: technical error page")

	// ErrConnectionLimit indicates the per-user connection limit was hit.
	ErrConnectionLimit = errors.New("twitter: connection limit exceeded for user")

	// ErrUnauthorizedPage indicates a 401 HTML page outside the JSON
	// error envelope.
	ErrUnauthorizedPage = errors.New("twitter: unauthorized")
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("twitter: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}
