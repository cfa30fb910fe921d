package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/curatorhq/curator-cli/internal/logger"
)

const (
	// DefaultRequestsPerSecond is the proactive throttle applied when
	// a collector declares no rate of its own.
	DefaultRequestsPerSecond = 2.0

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody limits how much of an error response body is
	// carried into an APIError message.
	maxErrorBody = 512
)

// ClientConfig configures the shared repository client.
type ClientConfig struct {
	// Token is the auth token for authenticated repositories.
	// Empty for anonymous access.
	Token string

	// TokenType is the Authorization scheme the repository expects.
	// Empty selects "Bearer".
	TokenType string

	// TokenHeader routes the token into a custom request header
	// instead of Authorization, for APIs keyed by headers such as
	// X-Dataverse-key.
	TokenHeader string

	// RequestsPerSecond is the proactive throttle rate.
	// Zero selects DefaultRequestsPerSecond.
	RequestsPerSecond float64

	// Retry bounds rate-limit and transport retries.
	// The zero value selects DefaultRetryPolicy.
	Retry RetryPolicy

	// Timeout bounds a single request. Zero selects DefaultTimeout.
	Timeout time.Duration

	// OnStatus receives short status messages (rate-limit waits,
	// page progress). May be nil.
	OnStatus func(text string)

	// OnPage is called once per successfully fetched response.
	// Drives indeterminate progress. May be nil.
	OnPage func()

	// HTTPClient overrides the underlying client. Used in tests.
	HTTPClient *http.Client
}

// Client issues GET requests against repository APIs with proactive
// throttling, reactive rate-limit waits, and bounded retries. All
// waits are interruptible through the request context, which doubles
// as the cooperative cancellation checkpoint for a run.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryPolicy
	onStatus   func(string)
	onPage     func()
}

// NewClient creates a client from configuration.
func NewClient(cfg ClientConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	retry := cfg.Retry
	if retry.MaxAttempts == 0 && retry.Backoff == 0 {
		retry = DefaultRetryPolicy()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	// Auth is layered in as a transport so every request carries the
	// token without collectors handling headers.
	if cfg.Token != "" {
		var transport http.RoundTripper
		if cfg.TokenHeader != "" {
			transport = &headerTransport{
				header: cfg.TokenHeader,
				value:  cfg.Token,
				base:   httpClient.Transport,
			}
		} else {
			transport = &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{
					AccessToken: cfg.Token,
					TokenType:   cfg.TokenType,
				}),
				Base: httpClient.Transport,
			}
		}
		httpClient = &http.Client{
			Timeout:   httpClient.Timeout,
			Transport: transport,
		}
	}

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		retry:      retry,
		onStatus:   cfg.OnStatus,
		onPage:     cfg.OnPage,
	}
}

// GetJSON performs one GET against rawURL with the given query
// parameters and decodes the JSON response into out (which may be nil
// to discard the body).
//
// HTTP 429 suspends the call: the client reports a rate-limit status
// message, waits until the advertised reset (or the policy backoff),
// and retries, up to the policy's attempt budget, after which it fails
// with *RateLimitError. 5xx responses and transport failures retry on
// the same budget and surface as *APIError / *TransportError. Other
// non-success statuses fail immediately with *APIError.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	requestURL := rawURL
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		requestURL = rawURL + sep + params.Encode()
	}

	budget := c.retry.attempts()
	for attempt := 1; ; attempt++ {
		// Cancellation checkpoint before each request.
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		resp, err := c.get(ctx, requestURL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if attempt >= budget {
				return &TransportError{URL: requestURL, Attempts: attempt, Err: err}
			}
			logger.Debug("Transport error on %s (attempt %d/%d): %v", requestURL, attempt, budget, err)
			if err := c.sleep(ctx, c.retry.delay(attempt)); err != nil {
				return err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			if attempt >= budget {
				return &TransportError{URL: requestURL, Attempts: attempt, Err: readErr}
			}
			if err := c.sleep(ctx, c.retry.delay(attempt)); err != nil {
				return err
			}
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if out != nil {
				if err := json.Unmarshal(body, out); err != nil {
					return fmt.Errorf("decoding response from %s: %w", requestURL, err)
				}
			}
			if c.onPage != nil {
				c.onPage()
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests:
			resetAt := parseResetTime(resp, time.Now())
			if attempt >= budget {
				return &RateLimitError{URL: requestURL, ResetAt: resetAt, Attempts: attempt}
			}
			wait := c.retry.delay(attempt)
			if !resetAt.IsZero() {
				if until := time.Until(resetAt); until > 0 {
					wait = until
				}
			}
			c.status(fmt.Sprintf("Rate limit hit, waiting %s before retrying.", wait.Round(time.Second)))
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}

		case resp.StatusCode >= 500:
			if attempt >= budget {
				return &APIError{StatusCode: resp.StatusCode, Message: trimBody(body), URL: requestURL}
			}
			logger.Debug("Server error %d on %s (attempt %d/%d)", resp.StatusCode, requestURL, attempt, budget)
			if err := c.sleep(ctx, c.retry.delay(attempt)); err != nil {
				return err
			}

		default:
			return &APIError{StatusCode: resp.StatusCode, Message: trimBody(body), URL: requestURL}
		}
	}
}

// headerTransport stamps a fixed header onto every request.
type headerTransport struct {
	header string
	value  string
	base   http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set(t.header, t.value)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// get issues the request itself.
func (c *Client) get(ctx context.Context, requestURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

// sleep waits for d, abandoning the wait when the context is
// cancelled. The context is re-checked on wake so a terminate request
// issued during a backoff is honoured before the next request.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	return ctx.Err()
}

// status forwards a message to the progress callback if one is set.
func (c *Client) status(text string) {
	if c.onStatus != nil {
		c.onStatus(text)
	}
}

// trimBody condenses a response body into an error message fragment.
func trimBody(body []byte) string {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	if msg == "" {
		msg = "(empty body)"
	}
	return msg
}
