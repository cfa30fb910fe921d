package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

func TestServer_handleCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("returns run summary", func(t *testing.T) {
		runner := &mockRunner{
			state: domain.RunState{
				RunID:      "run-1",
				Repository: "zenodo",
				Status:     domain.RunCompleted,
				Outcomes: []domain.CombinationOutcome{
					{Query: domain.Query{Term: "cats"}, Records: 12},
					{Query: domain.Query{Term: "dogs"}, Err: "boom"},
				},
			},
		}

		server, err := NewServer(&Ports{Runner: runner, Catalog: &mockCatalog{}})
		require.NoError(t, err)

		input := CollectInput{Repository: "zenodo", Terms: []string{"cats", "dogs"}}
		_, output, err := server.handleCollect(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "run-1", output.RunID)
		assert.Equal(t, "completed", output.Status)
		assert.Equal(t, 12, output.Records)
		assert.Equal(t, 1, output.Failures)
		require.Len(t, output.Combinations, 2)
		assert.Equal(t, "cats", output.Combinations[0].Term)
		assert.Equal(t, 12, output.Combinations[0].Records)
		assert.Equal(t, "boom", output.Combinations[1].Error)

		assert.Equal(t, "zenodo", runner.lastReq.Repository)
		assert.Equal(t, []string{"cats", "dogs"}, runner.lastReq.Params.Terms)
	})

	t.Run("returns error when run cannot start", func(t *testing.T) {
		runner := &mockRunner{err: domain.ErrUnsupportedRepository}

		server, err := NewServer(&Ports{Runner: runner, Catalog: &mockCatalog{}})
		require.NoError(t, err)

		_, _, err = server.handleCollect(ctx, nil, CollectInput{Repository: "github"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsupportedRepository)
	})
}

func TestServer_handleListRepositories(t *testing.T) {
	catalog := &mockCatalog{
		infos: []driving.RepositoryInfo{
			{Name: "mendeley", SupportsTerms: true, SupportsTypes: true,
				TypeOptions: []string{"articles"}, RequiresAuth: true},
			{Name: "zenodo", SupportsTerms: true},
		},
	}

	server, err := NewServer(&Ports{Runner: &mockRunner{}, Catalog: catalog})
	require.NoError(t, err)

	_, output, err := server.handleListRepositories(context.Background(), nil, ListRepositoriesInput{})

	require.NoError(t, err)
	require.Len(t, output.Repositories, 2)
	assert.Equal(t, "mendeley", output.Repositories[0].Name)
	assert.True(t, output.Repositories[0].RequiresAuth)
	assert.Equal(t, []string{"articles"}, output.Repositories[0].TypeOptions)
	assert.False(t, output.Repositories[1].RequiresAuth)
}

func TestServer_handleCollect_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("create failed")}
	server, err := NewServer(&Ports{Runner: runner, Catalog: &mockCatalog{}})
	require.NoError(t, err)

	_, _, err = server.handleCollect(context.Background(), nil, CollectInput{Repository: "zenodo"})
	assert.Error(t, err)
}
