package collectors

import (
	"net/http"
	"strconv"
	"time"
)

// Rate-limit response headers recognised across repository APIs.
const (
	// HeaderRetryAfter is the standard retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	// HeaderRateReset is the IETF draft reset header (Unix seconds or
	// delta seconds, both are seen in the wild).
	HeaderRateReset = "RateLimit-Reset"

	// HeaderXRateReset is the de-facto reset header (Unix seconds).
	HeaderXRateReset = "X-RateLimit-Reset"
)

// RetryPolicy bounds the retry behaviour of the shared client. The
// zero value disables retries; repositories usually run with
// DefaultRetryPolicy, overridable through configuration.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget per request, including
	// the first attempt. Values below 1 are treated as 1.
	MaxAttempts int

	// Backoff is the wait before the first retry.
	Backoff time.Duration

	// Exponential doubles the wait on each subsequent retry.
	Exponential bool

	// MaxBackoff caps the per-retry wait. Zero means uncapped.
	MaxBackoff time.Duration
}

// DefaultRetryPolicy returns the framework default retry policy.
// The numbers are a policy choice, not a repository contract;
// collectors and configuration may override them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Backoff:     2 * time.Second,
		Exponential: true,
		MaxBackoff:  time.Minute,
	}
}

// attempts returns the effective attempt budget.
func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// delay returns the wait before retry number n (1-based).
func (p RetryPolicy) delay(n int) time.Duration {
	d := p.Backoff
	if p.Exponential {
		for i := 1; i < n; i++ {
			d *= 2
			if p.MaxBackoff > 0 && d >= p.MaxBackoff {
				return p.MaxBackoff
			}
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// parseResetTime extracts the advertised rate-limit reset time from a
// response. Returns zero time when no usable header is present.
func parseResetTime(resp *http.Response, now time.Time) time.Time {
	if resp == nil {
		return time.Time{}
	}

	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			return now.Add(time.Duration(seconds) * time.Second)
		}
	}

	for _, header := range []string{HeaderRateReset, HeaderXRateReset} {
		raw := resp.Header.Get(header)
		if raw == "" {
			continue
		}
		val, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		// Small values are delta seconds, large ones Unix timestamps.
		if val < 1<<30 {
			return now.Add(time.Duration(val) * time.Second)
		}
		return time.Unix(val, 0)
	}

	return time.Time{}
}
