package tui

import (
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Runner executes and observes collection runs.
	Runner driving.CollectionRunner

	// Catalog lists the available repositories.
	Catalog driving.RepositoryCatalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Runner == nil {
		return ErrMissingRunner
	}
	if p.Catalog == nil {
		return ErrMissingCatalog
	}
	return nil
}
