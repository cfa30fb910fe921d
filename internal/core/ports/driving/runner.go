package driving

import (
	"context"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

// RunRequest configures one collection run.
type RunRequest struct {
	// RunID identifies the run for status polling. Callers that want
	// to observe progress supply their own ID (a UUID); the runner
	// assigns one when empty.
	RunID string

	// Repository names the collector to run.
	Repository string

	// Params are the search terms and types for the run.
	Params domain.SearchParameters

	// Flatten requests nested-structure flattening in the output.
	Flatten bool

	// MaxRetries overrides the rate-limit retry budget for the run.
	// Zero keeps the collector's default.
	MaxRetries int
}

// CollectionRunner drives the collector lifecycle: validate, run,
// terminate, and poll status. A run is identified by a run ID so the
// UI can observe progress from another goroutine.
type CollectionRunner interface {
	// Run executes a collection synchronously, blocking until the run
	// reaches a terminal state. The returned state is the terminal
	// snapshot. The error is non-nil only when the run could not start
	// (unknown repository, invalid parameters, missing credentials);
	// mid-run failures surface through the state, never as panics or
	// raw errors past this boundary. A credential rejection mid-run
	// settles the run Failed without attempting the remaining
	// combinations.
	//
	// Callers wanting live progress invoke Run on a background
	// goroutine and poll Status with the request's RunID.
	Run(ctx context.Context, req RunRequest) (domain.RunState, error)

	// Terminate requests cooperative cancellation of an active run.
	// The run stops at its next checkpoint (page fetch, retry sleep,
	// or detail fetch). Returns domain.ErrRunNotFound for unknown or
	// already-finished runs.
	Terminate(runID string) error

	// Status returns a snapshot of a run's state. Works for active
	// runs only; finished runs live in the history store.
	Status(runID string) (domain.RunState, error)

	// Active returns snapshots of all currently active runs.
	Active() []domain.RunState
}

// RepositoryInfo describes one available repository for pickers.
type RepositoryInfo struct {
	// Name is the repository identifier.
	Name string

	// SupportsTerms / SupportsTypes mirror the collector capabilities.
	SupportsTerms bool
	SupportsTypes bool

	// TypeOptions is the fixed search-type set, if any.
	TypeOptions []string

	// RequiresAuth indicates credentials are needed.
	RequiresAuth bool
}

// RepositoryCatalog lists the repositories available for collection.
type RepositoryCatalog interface {
	// Repositories returns descriptors for all registered
	// repositories, sorted by name.
	Repositories() []RepositoryInfo

	// Describe returns the descriptor for one repository.
	// Returns domain.ErrUnsupportedRepository for unknown names.
	Describe(name string) (RepositoryInfo, error)
}
