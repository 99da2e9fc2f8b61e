package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
	"github.com/custodia-labs/retweever-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retweever-cli/internal/tweet"
)

const (
	// DefaultBaseURL is the Twitter 1.1 REST API root.
	DefaultBaseURL = "https://api.twitter.com/1.1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	statusPath = "/statuses/show.json"
)

// Ensure Client implements the driven port.
var _ driven.StatusFetcher = (*Client)(nil)

// Client fetches single statuses from the Twitter API, respecting the
// reported rate-limit window.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *RateLimiter
}

// NewClient creates a client authenticated with an app-only bearer token.
func NewClient(ctx context.Context, creds *Credentials) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: creds.BearerToken},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		httpClient:  tc,
		baseURL:     DefaultBaseURL,
		rateLimiter: NewRateLimiter(),
	}
}

// NewClientWithHTTPClient creates a client with a custom http.Client
// and API root. Used by tests against a local server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		rateLimiter: NewRateLimiter(),
	}
}

// FetchStatus fetches one status in extended mode and returns the
// normalised item plus the verbatim response body. It blocks until the
// rate limit allows the request, bounded by ctx.
func (c *Client) FetchStatus(ctx context.Context, id int64) (*domain.Item, []byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limit wait: %w", err)
	}

	// Extended mode gets full_text for new-style long tweets; the
	// remaining parameters preserve everything the archive may need.
	params := url.Values{
		"id":                   {strconv.FormatInt(id, 10)},
		"tweet_mode":           {"extended"},
		"trim_user":            {"false"},
		"include_my_retweet":   {"true"},
		"include_entities":     {"true"},
		"include_ext_alt_text": {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+statusPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch status %d: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response for status %d: %w", id, err)
	}

	c.rateLimiter.UpdateFromResponse(resp)

	if resp.StatusCode == http.StatusTooManyRequests {
		status := c.rateLimiter.Status()
		return nil, body, &RateLimitError{
			ResetAt:   status.Reset,
			Remaining: status.Remaining,
			Limit:     status.Limit,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, body, &driven.FetchError{
			StatusCode: resp.StatusCode,
			Message:    apiErrorMessage(body),
		}
	}

	item, kind, err := tweet.Extract(body)
	if err != nil {
		if pageErr := classifyErrorPage(body); pageErr != nil {
			return nil, body, pageErr
		}
		return nil, body, fmt.Errorf("decode response for status %d: %w", id, err)
	}
	if kind == tweet.KindEmpty {
		return nil, body, &driven.FetchError{
			StatusCode: resp.StatusCode,
			Message:    "response carried no status",
		}
	}

	return item, body, nil
}

// RateLimitStatus returns the most recently observed window state.
func (c *Client) RateLimitStatus() driven.RateLimitStatus {
	return c.rateLimiter.Status()
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// apiErrorMessage pulls the first message out of the API's JSON error
// envelope, or returns the empty string.
func apiErrorMessage(body []byte) string {
	var envelope struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Errors) == 0 {
		return ""
	}
	return envelope.Errors[0].Message
}

// classifyErrorPage recognises the HTML pages the service serves
// during outages instead of JSON.
func classifyErrorPage(body []byte) error {
	switch {
	case bytes.Contains(body, []byte("<title>Twitter / Over capacity</title>")):
		return ErrOverCapacity
	case bytes.Contains(body, []byte("<title>Twitter / Error</title>")):
		return ErrTechnicalError
	case bytes.Contains(body, []byte("Exceeded connection limit for user")):
		return ErrConnectionLimit
	case bytes.Contains(body, []byte("Error 401 Unauthorized")):
		return ErrUnauthorizedPage
	default:
		return nil
	}
}
