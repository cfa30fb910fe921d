package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/curatorhq/curator-cli/internal/collectors/dataverse"
	"github.com/curatorhq/curator-cli/internal/collectors/dryad"
	"github.com/curatorhq/curator-cli/internal/collectors/figshare"
	"github.com/curatorhq/curator-cli/internal/collectors/openml"
	"github.com/curatorhq/curator-cli/internal/collectors/pwc"
	"github.com/curatorhq/curator-cli/internal/collectors/zenodo"
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

// Ensure CollectorRegistry implements the interface.
var _ driven.CollectorFactory = (*CollectorRegistry)(nil)

// CollectorRegistry maintains the set of available repository
// collectors and builds them per run.
type CollectorRegistry struct {
	mu       sync.RWMutex
	builders map[string]driven.CollectorBuilder
}

// NewCollectorRegistry creates a registry with the built-in
// repository collectors registered.
func NewCollectorRegistry() *CollectorRegistry {
	r := &CollectorRegistry{
		builders: make(map[string]driven.CollectorBuilder),
	}
	r.registerBuiltinCollectors()
	return r
}

func (r *CollectorRegistry) registerBuiltinCollectors() {
	r.Register(dataverse.Name, dataverse.Builder)
	r.Register(dryad.Name, dryad.Builder)
	r.Register(figshare.Name, figshare.Builder)
	r.Register(openml.Name, openml.Builder)
	r.Register(pwc.Name, pwc.Builder)
	r.Register(zenodo.Name, zenodo.Builder)
}

// Register adds a collector builder for the given repository name.
func (r *CollectorRegistry) Register(repository string, builder driven.CollectorBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[repository] = builder
}

// Create builds a collector for one run.
func (r *CollectorRegistry) Create(_ context.Context, repository string, opts driven.CollectorOptions) (driven.Collector, error) {
	r.mu.RLock()
	builder, ok := r.builders[repository]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedRepository, repository)
	}

	collector, err := builder(opts)
	if err != nil {
		return nil, fmt.Errorf("create %s collector: %w", repository, err)
	}
	return collector, nil
}

// Repositories returns all registered repository names, sorted.
func (r *CollectorRegistry) Repositories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the capabilities a repository's collector declares.
func (r *CollectorRegistry) Describe(repository string) (driven.CollectorCapabilities, error) {
	r.mu.RLock()
	builder, ok := r.builders[repository]
	r.mu.RUnlock()
	if !ok {
		return driven.CollectorCapabilities{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedRepository, repository)
	}

	collector, err := builder(driven.CollectorOptions{})
	if err != nil {
		return driven.CollectorCapabilities{}, fmt.Errorf("describe %s: %w", repository, err)
	}
	return collector.Capabilities(), nil
}

// Ensure RepositoryCatalog implements the interface.
var _ driving.RepositoryCatalog = (*RepositoryCatalog)(nil)

// RepositoryCatalog exposes the registered repositories to pickers and
// listings.
type RepositoryCatalog struct {
	factory driven.CollectorFactory
}

// NewRepositoryCatalog creates a catalog over a collector factory.
func NewRepositoryCatalog(factory driven.CollectorFactory) *RepositoryCatalog {
	return &RepositoryCatalog{factory: factory}
}

// Repositories returns descriptors for all registered repositories,
// sorted by name.
func (c *RepositoryCatalog) Repositories() []driving.RepositoryInfo {
	names := c.factory.Repositories()
	infos := make([]driving.RepositoryInfo, 0, len(names))
	for _, name := range names {
		info, err := c.Describe(name)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos
}

// Describe returns the descriptor for one repository.
func (c *RepositoryCatalog) Describe(name string) (driving.RepositoryInfo, error) {
	caps, err := c.factory.Describe(name)
	if err != nil {
		return driving.RepositoryInfo{}, err
	}
	return driving.RepositoryInfo{
		Name:          name,
		SupportsTerms: caps.SupportsTerms,
		SupportsTypes: caps.SupportsTypes,
		TypeOptions:   caps.TypeOptions,
		RequiresAuth:  caps.RequiresAuth,
	}, nil
}
