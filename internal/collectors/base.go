package collectors

import (
	"fmt"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
)

// Base carries the state every repository collector shares: the
// repository name, its declared capabilities, and the shared HTTP
// client. Concrete collectors embed Base and add their query shape.
type Base struct {
	repository string
	caps       driven.CollectorCapabilities
	client     *Client
}

// NewBase assembles the common collector state. The run options are
// folded into the collector's client configuration: credentials become
// the auth token, retry overrides narrow the policy, and the progress
// callbacks are threaded into the HTTP layer. cfg carries any
// collector-specific settings (token scheme, request rate).
func NewBase(repository string, caps driven.CollectorCapabilities, opts driven.CollectorOptions, cfg ClientConfig) Base {
	cfg.Token = opts.Credentials.Token()
	if cfg.Retry.MaxAttempts == 0 && cfg.Retry.Backoff == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}
	if opts.MaxRetries > 0 {
		cfg.Retry.MaxAttempts = opts.MaxRetries
	}
	cfg.OnStatus = opts.OnStatus
	cfg.OnPage = opts.OnPage

	return Base{
		repository: repository,
		caps:       caps,
		client:     NewClient(cfg),
	}
}

// Repository returns the repository name identifier.
func (b *Base) Repository() string { return b.repository }

// Capabilities returns the declared capabilities.
func (b *Base) Capabilities() driven.CollectorCapabilities { return b.caps }

// Client returns the shared HTTP client.
func (b *Base) Client() *Client { return b.client }

// SetClient replaces the HTTP client. Tests use this to point a
// collector at a local server with a tight retry schedule.
func (b *Base) SetClient(client *Client) { b.client = client }

// Validate checks search parameters against the declared capabilities.
// Term-capable collectors require at least one non-blank term;
// type-capable collectors require every type to be in the option set.
// Parameters a collector doesn't support are rejected rather than
// silently ignored.
func (b *Base) Validate(params domain.SearchParameters) error {
	if b.caps.SupportsTerms {
		if len(params.Terms) == 0 {
			return fmt.Errorf("%w: %s requires at least one search term",
				domain.ErrInvalidSearchTerm, b.repository)
		}
		for _, term := range params.Terms {
			if err := domain.ValidateSearchTerm(term); err != nil {
				return err
			}
		}
	} else if len(params.Terms) > 0 {
		return fmt.Errorf("%w: %s does not search by term",
			domain.ErrInvalidInput, b.repository)
	}

	if b.caps.SupportsTypes {
		for _, searchType := range params.Types {
			if err := domain.ValidateSearchType(searchType, b.caps.TypeOptions); err != nil {
				return err
			}
		}
	} else if len(params.Types) > 0 {
		return fmt.Errorf("%w: %s does not search by type",
			domain.ErrInvalidInput, b.repository)
	}

	return nil
}

// NormalizeParams fills defaulted parameters: a type-capable collector
// given no types searches every declared type option.
func NormalizeParams(caps driven.CollectorCapabilities, params domain.SearchParameters) domain.SearchParameters {
	if caps.SupportsTypes && len(params.Types) == 0 {
		params.Types = append([]string(nil), caps.TypeOptions...)
	}
	return params
}
