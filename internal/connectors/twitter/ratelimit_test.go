package twitter

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimiter() (*RateLimiter, *time.Duration) {
	r := NewRateLimiter()
	var slept time.Duration
	r.now = func() time.Time { return time.Unix(1_000_000, 0) }
	r.sleep = func(_ context.Context, d time.Duration) error {
		slept += d
		return nil
	}
	return r, &slept
}

func respWithHeaders(h map[string]string) *http.Response {
	header := http.Header{}
	for k, v := range h {
		header.Set(k, v)
	}
	return &http.Response{StatusCode: 200, Header: header}
}

func TestUpdateFromResponse(t *testing.T) {
	r, _ := testLimiter()
	r.UpdateFromResponse(respWithHeaders(map[string]string{
		HeaderRateLimit:     "900",
		HeaderRateRemaining: "42",
		HeaderRateReset:     "1000900",
	}))

	status := r.Status()
	assert.Equal(t, 900, status.Limit)
	assert.Equal(t, 42, status.Remaining)
	assert.Equal(t, time.Unix(1_000_900, 0), status.Reset)
}

func TestWaitSleepsUntilResetPlusMargin(t *testing.T) {
	r, slept := testLimiter()
	r.UpdateFromResponse(respWithHeaders(map[string]string{
		HeaderRateRemaining: "0",
		HeaderRateReset:     "1000060", // 60s past the fake now
	}))

	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, 60*time.Second+ResetMargin, *slept)
}

func TestWaitClampsNegativeWait(t *testing.T) {
	r, slept := testLimiter()
	r.UpdateFromResponse(respWithHeaders(map[string]string{
		HeaderRateRemaining: "0",
		HeaderRateReset:     "999000", // already in the past
	}))

	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, ResetMargin, *slept, "wait is max(reset-now, 0) plus the margin")
}

func TestWaitNoSleepWithRemainingBudget(t *testing.T) {
	r, slept := testLimiter()
	r.UpdateFromResponse(respWithHeaders(map[string]string{
		HeaderRateRemaining: "10",
		HeaderRateReset:     "1000900",
	}))

	require.NoError(t, r.Wait(context.Background()))
	assert.Zero(t, *slept)
}

func TestWaitHonoursContext(t *testing.T) {
	r := NewRateLimiter()
	r.UpdateFromResponse(respWithHeaders(map[string]string{
		HeaderRateRemaining: "0",
		HeaderRateReset:     "9999999999",
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, r.Wait(ctx))
}

func TestIgnoresMalformedHeaders(t *testing.T) {
	r, _ := testLimiter()
	r.UpdateFromResponse(respWithHeaders(map[string]string{
		HeaderRateRemaining: "not-a-number",
	}))
	assert.Equal(t, StatusWindowLimit, r.Status().Remaining)
}
