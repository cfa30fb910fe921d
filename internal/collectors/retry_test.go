package collectors

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestRetryPolicy_Delay tests fixed and exponential schedules
func TestRetryPolicy_Delay(t *testing.T) {
	fixed := RetryPolicy{MaxAttempts: 4, Backoff: time.Second}
	assert.Equal(t, time.Second, fixed.delay(1))
	assert.Equal(t, time.Second, fixed.delay(3))

	exp := RetryPolicy{MaxAttempts: 6, Backoff: time.Second, Exponential: true, MaxBackoff: 5 * time.Second}
	assert.Equal(t, time.Second, exp.delay(1))
	assert.Equal(t, 2*time.Second, exp.delay(2))
	assert.Equal(t, 4*time.Second, exp.delay(3))
	assert.Equal(t, 5*time.Second, exp.delay(4))
	assert.Equal(t, 5*time.Second, exp.delay(10))
}

// TestRetryPolicy_Attempts tests the minimum attempt budget
func TestRetryPolicy_Attempts(t *testing.T) {
	assert.Equal(t, 1, RetryPolicy{}.attempts())
	assert.Equal(t, 1, RetryPolicy{MaxAttempts: -3}.attempts())
	assert.Equal(t, 5, DefaultRetryPolicy().attempts())
}

// TestParseResetTime tests header precedence and formats
func TestParseResetTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	resp := &http.Response{Header: http.Header{}}
	assert.True(t, parseResetTime(resp, now).IsZero())

	// Retry-After in seconds wins over everything else.
	resp.Header.Set(HeaderRetryAfter, "30")
	resp.Header.Set(HeaderRateReset, "120")
	assert.Equal(t, now.Add(30*time.Second), parseResetTime(resp, now))

	// Delta-seconds reset.
	resp.Header = http.Header{}
	resp.Header.Set(HeaderRateReset, "120")
	assert.Equal(t, now.Add(120*time.Second), parseResetTime(resp, now))

	// Unix-timestamp reset.
	unix := now.Add(time.Hour).Unix()
	resp.Header = http.Header{}
	resp.Header.Set(HeaderXRateReset, strconv.FormatInt(unix, 10))
	assert.Equal(t, time.Unix(unix, 0), parseResetTime(resp, now))

	// Garbage is ignored.
	resp.Header = http.Header{}
	resp.Header.Set(HeaderRetryAfter, "soon")
	assert.True(t, parseResetTime(resp, now).IsZero())

	assert.True(t, parseResetTime(nil, now).IsZero())
}
