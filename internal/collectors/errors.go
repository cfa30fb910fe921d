package collectors

import (
	"errors"
	"fmt"
	"time"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

// RateLimitError indicates the retry budget was exhausted while the
// API kept rate-limiting. It unwraps to domain.ErrRateLimited so the
// runner can classify it without importing this package's types.
type RateLimitError struct {
	// URL is the request that kept being limited.
	URL string

	// ResetAt is the reset time advertised by the API, zero if the
	// API gave none.
	ResetAt time.Time

	// Attempts is the number of attempts made before giving up.
	Attempts int
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return fmt.Sprintf("rate limit exceeded after %d attempts: %s", e.Attempts, e.URL)
	}
	return fmt.Sprintf("rate limit exceeded after %d attempts (resets at %s): %s",
		e.Attempts, e.ResetAt.Format(time.RFC3339), e.URL)
}

// Unwrap ties the typed error into the domain taxonomy.
func (e *RateLimitError) Unwrap() error { return domain.ErrRateLimited }

// APIError represents a non-success response from a repository API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// TransportError represents a network-level failure that persisted
// through the retry budget.
type TransportError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %s: %v", e.Attempts, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRateLimited checks if the error indicates an exhausted rate-limit
// retry budget.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsNotFound checks if the error indicates a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}
