package mcp

import (
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Runner executes collection runs.
	Runner driving.CollectionRunner

	// Catalog lists the available repositories.
	Catalog driving.RepositoryCatalog

	// History exposes past runs. Optional; the run resources return
	// not-found when absent.
	History driven.RunHistoryStore
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
