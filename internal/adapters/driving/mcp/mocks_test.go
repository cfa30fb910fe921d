package mcp

import (
	"context"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

// mockRunner implements driving.CollectionRunner for testing.
type mockRunner struct {
	state   domain.RunState
	err     error
	lastReq driving.RunRequest
}

func (m *mockRunner) Run(_ context.Context, req driving.RunRequest) (domain.RunState, error) {
	m.lastReq = req
	return m.state, m.err
}

func (m *mockRunner) Terminate(_ string) error { return nil }

func (m *mockRunner) Status(_ string) (domain.RunState, error) {
	return m.state, nil
}

func (m *mockRunner) Active() []domain.RunState { return nil }

// mockCatalog implements driving.RepositoryCatalog for testing.
type mockCatalog struct {
	infos []driving.RepositoryInfo
}

func (m *mockCatalog) Repositories() []driving.RepositoryInfo { return m.infos }

func (m *mockCatalog) Describe(name string) (driving.RepositoryInfo, error) {
	for _, info := range m.infos {
		if info.Name == name {
			return info, nil
		}
	}
	return driving.RepositoryInfo{}, domain.ErrUnsupportedRepository
}

// mockHistory implements driven.RunHistoryStore for testing.
type mockHistory struct {
	records []domain.RunRecord
	err     error
}

func (m *mockHistory) Save(_ context.Context, _ *domain.RunRecord) error { return nil }

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *mockHistory) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistory) Close() error { return nil }
