package collectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
)

// TestBase_Validate tests capability-driven parameter validation
func TestBase_Validate(t *testing.T) {
	tests := []struct {
		name    string
		caps    driven.CollectorCapabilities
		params  domain.SearchParameters
		wantErr error
	}{
		{
			name:   "term collector accepts terms",
			caps:   driven.CollectorCapabilities{SupportsTerms: true},
			params: domain.SearchParameters{Terms: []string{"cats"}},
		},
		{
			name:    "term collector requires a term",
			caps:    driven.CollectorCapabilities{SupportsTerms: true},
			params:  domain.SearchParameters{},
			wantErr: domain.ErrInvalidSearchTerm,
		},
		{
			name:    "blank term rejected",
			caps:    driven.CollectorCapabilities{SupportsTerms: true},
			params:  domain.SearchParameters{Terms: []string{"   "}},
			wantErr: domain.ErrInvalidSearchTerm,
		},
		{
			name:    "terms rejected when unsupported",
			caps:    driven.CollectorCapabilities{SupportsTypes: true, TypeOptions: []string{"datasets"}},
			params:  domain.SearchParameters{Terms: []string{"cats"}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:   "type collector accepts known type",
			caps:   driven.CollectorCapabilities{SupportsTypes: true, TypeOptions: []string{"datasets", "runs"}},
			params: domain.SearchParameters{Types: []string{"runs"}},
		},
		{
			name:    "unknown type rejected",
			caps:    driven.CollectorCapabilities{SupportsTypes: true, TypeOptions: []string{"datasets"}},
			params:  domain.SearchParameters{Types: []string{"flows"}},
			wantErr: domain.ErrInvalidSearchType,
		},
		{
			name:    "types rejected when unsupported",
			caps:    driven.CollectorCapabilities{SupportsTerms: true},
			params:  domain.SearchParameters{Terms: []string{"cats"}, Types: []string{"datasets"}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "term and type collector accepts both",
			caps: driven.CollectorCapabilities{
				SupportsTerms: true,
				SupportsTypes: true,
				TypeOptions:   []string{"articles", "projects"},
			},
			params: domain.SearchParameters{Terms: []string{"cats"}, Types: []string{"articles"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := NewBase("testrepo", tt.caps, driven.CollectorOptions{}, ClientConfig{})
			err := base.Validate(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// TestNewBase_RetryOverride tests that MaxRetries narrows the budget
func TestNewBase_RetryOverride(t *testing.T) {
	base := NewBase("testrepo", driven.CollectorCapabilities{}, driven.CollectorOptions{MaxRetries: 2}, ClientConfig{})
	require.NotNil(t, base.Client())
	assert.Equal(t, 2, base.Client().retry.attempts())

	dflt := NewBase("testrepo", driven.CollectorCapabilities{}, driven.CollectorOptions{}, ClientConfig{})
	assert.Equal(t, DefaultRetryPolicy().MaxAttempts, dflt.Client().retry.attempts())
}

// TestNormalizeParams tests the default type fan-out
func TestNormalizeParams(t *testing.T) {
	caps := driven.CollectorCapabilities{SupportsTypes: true, TypeOptions: []string{"datasets", "runs"}}

	out := NormalizeParams(caps, domain.SearchParameters{})
	assert.Equal(t, []string{"datasets", "runs"}, out.Types)

	out = NormalizeParams(caps, domain.SearchParameters{Types: []string{"runs"}})
	assert.Equal(t, []string{"runs"}, out.Types)

	out = NormalizeParams(driven.CollectorCapabilities{SupportsTerms: true}, domain.SearchParameters{Terms: []string{"cats"}})
	assert.Empty(t, out.Types)
}
