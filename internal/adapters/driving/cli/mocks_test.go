package cli

import (
	"context"
	"sync"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

// mockCollectionRunner implements driving.CollectionRunner for testing.
type mockCollectionRunner struct {
	mu         sync.Mutex
	state      domain.RunState
	err        error
	lastReq    driving.RunRequest
	terminated []string
}

func (m *mockCollectionRunner) Run(_ context.Context, req driving.RunRequest) (domain.RunState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReq = req
	if m.err != nil {
		return domain.RunState{}, m.err
	}
	state := m.state
	state.RunID = req.RunID
	return state, nil
}

func (m *mockCollectionRunner) Terminate(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terminated = append(m.terminated, runID)
	return nil
}

func (m *mockCollectionRunner) Status(_ string) (domain.RunState, error) {
	return domain.RunState{}, domain.ErrRunNotFound
}

func (m *mockCollectionRunner) Active() []domain.RunState { return nil }

func (m *mockCollectionRunner) request() driving.RunRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}

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

// mockCredentials implements credentialManager for testing.
type mockCredentials struct {
	entries map[string]domain.Credentials
}

func newMockCredentials() *mockCredentials {
	return &mockCredentials{entries: make(map[string]domain.Credentials)}
}

func (m *mockCredentials) Get(repository string) (domain.Credentials, error) {
	return m.entries[repository], nil
}

func (m *mockCredentials) Set(repository string, creds domain.Credentials) error {
	if len(creds) == 0 {
		delete(m.entries, repository)
		return nil
	}
	m.entries[repository] = creds
	return nil
}

func (m *mockCredentials) Repositories() ([]string, error) {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	return names, nil
}

// mockHistoryStore implements driven.RunHistoryStore for testing.
type mockHistoryStore struct {
	records []domain.RunRecord
	err     error
}

func (m *mockHistoryStore) Save(_ context.Context, _ *domain.RunRecord) error { return nil }

func (m *mockHistoryStore) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *mockHistoryStore) Get(_ context.Context, id string) (*domain.RunRecord, error) {
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

func (m *mockHistoryStore) Close() error { return nil }
