package driven

import (
	"context"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

// ResultWriter persists the merged records for one combination.
// Implementations decide layout and encoding; the default adapter
// writes {save_dir}/{repository}/{key}.json.
type ResultWriter interface {
	// Write persists the records for one combination. An empty record
	// slice is a no-op.
	Write(ctx context.Context, repository string, query domain.Query, records []domain.Record) error
}

// ProgressReporter receives progress events from a running collection.
// Implementations must be cheap and non-blocking; they are called from
// the run goroutine at every page fetch and combination boundary.
type ProgressReporter interface {
	// Determinate reports known-total progress as a fraction in [0, 1].
	Determinate(fraction float64)

	// Indeterminate reports a heartbeat for unknown-total work, such
	// as open-ended pagination.
	Indeterminate()

	// Message reports a short status-bar style text update.
	Message(text string)
}

// CredentialStore supplies per-repository credentials, loaded from an
// external mapping of repository name to credential fields.
type CredentialStore interface {
	// Get returns the credentials for a repository. Returns an empty
	// mapping (not an error) when the repository has no entry.
	Get(repository string) (domain.Credentials, error)
}

// RunHistoryStore persists summaries of finished collection runs.
type RunHistoryStore interface {
	// Save records a finished run.
	Save(ctx context.Context, record *domain.RunRecord) error

	// List returns the most recent runs, newest first, up to limit.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Get retrieves one run by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)

	// Close releases the underlying storage.
	Close() error
}
