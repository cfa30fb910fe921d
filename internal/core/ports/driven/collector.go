package driven

import (
	"context"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

// Collector queries one external research-data repository for metadata.
// Each repository (zenodo, dryad, figshare, etc.) implements this
// interface on top of the shared collection machinery.
//
// A collector instance serves a single logical run and is discarded
// afterwards; it is not safe for concurrent use.
type Collector interface {
	// Repository returns the repository name identifier.
	Repository() string

	// Capabilities returns what this collector supports.
	Capabilities() CollectorCapabilities

	// Validate checks search parameters against the collector's
	// declared capabilities before any network call. Term-capable
	// collectors require non-blank terms; type-capable collectors
	// require types drawn from the declared option set.
	Validate(params domain.SearchParameters) error

	// Search aggregates all records matching one combination,
	// page by page, until the repository signals exhaustion.
	// The aggregation is finite and not restartable.
	Search(ctx context.Context, query domain.Query) (*domain.QueryResult, error)
}

// MetadataProvider is implemented by collectors whose repository
// exposes a per-record detail endpoint. Collectors without one simply
// don't implement the interface and their search records pass through
// unmerged.
type MetadataProvider interface {
	// MergeKey returns the record field used to join search results
	// with detail metadata for the given combination. Repositories
	// whose identifier field varies by search type key off the query.
	MergeKey(query domain.Query) string

	// Metadata fetches enriched per-record metadata for a search
	// result. The returned records are matched to search records by
	// the merge key; partial coverage is expected.
	Metadata(ctx context.Context, result *domain.QueryResult) ([]domain.Record, error)
}

// CollectorCapabilities describes what a collector supports.
type CollectorCapabilities struct {
	// SupportsTerms indicates the repository is searched by free-text term.
	SupportsTerms bool

	// SupportsTypes indicates the repository is searched by enumerated type.
	SupportsTypes bool

	// TypeOptions is the fixed set of valid search types.
	// Empty unless SupportsTypes is true.
	TypeOptions []string

	// SupportsMetadata indicates the collector implements MetadataProvider.
	SupportsMetadata bool

	// RequiresAuth indicates the repository rejects unauthenticated
	// requests. Collection aborts early without credentials.
	RequiresAuth bool

	// SavePartialOnCancel indicates results gathered before a
	// terminate request should still be persisted. Default policy is
	// to discard partial results.
	SavePartialOnCancel bool
}

// CollectorOptions carries the per-run wiring a collector is built
// with: credentials, retry bounds, and progress callbacks.
type CollectorOptions struct {
	// Credentials is the repository's credential mapping, possibly empty.
	Credentials domain.Credentials

	// MaxRetries overrides the retry attempt budget. Zero keeps the
	// collector's default policy.
	MaxRetries int

	// OnStatus receives short status messages from the collector's
	// HTTP layer (rate-limit waits). May be nil.
	OnStatus func(text string)

	// OnPage is called once per fetched page, driving indeterminate
	// progress. May be nil.
	OnPage func()
}

// CollectorFactory creates collectors by repository name.
// It maintains a registry of repository names and their builders.
type CollectorFactory interface {
	// Create returns a Collector for the given repository.
	// Returns domain.ErrUnsupportedRepository for unknown names.
	Create(ctx context.Context, repository string, opts CollectorOptions) (Collector, error)

	// Register adds a collector builder for the given repository name.
	Register(repository string, builder CollectorBuilder)

	// Repositories returns all registered repository names, sorted.
	Repositories() []string

	// Describe returns the capabilities a repository's collector
	// declares, without constructing a full collector.
	Describe(repository string) (CollectorCapabilities, error)
}

// CollectorBuilder constructs a collector instance for one run.
type CollectorBuilder func(opts CollectorOptions) (Collector, error)
