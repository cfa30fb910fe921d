package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

func setupCollectTest(runner *mockCollectionRunner) func() {
	oldRunner := collectionRunner
	oldConfig := configStore
	collectionRunner = runner
	configStore = nil
	collectTerms = nil
	collectTypes = nil
	collectFlatten = false
	collectRetries = 0
	collectCmd.Flags().Lookup("flatten").Changed = false
	return func() {
		collectionRunner = oldRunner
		configStore = oldConfig
	}
}

func execute(args ...string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf, err
}

func TestCollectCmd_Use(t *testing.T) {
	assert.Equal(t, "collect [repository]", collectCmd.Use)
}

func TestCollectCmd_Short(t *testing.T) {
	assert.Equal(t, "Run a collection against a repository", collectCmd.Short)
}

func TestCollectCmd_Success(t *testing.T) {
	runner := &mockCollectionRunner{
		state: domain.RunState{
			Repository: "zenodo",
			Status:     domain.RunCompleted,
			Outcomes: []domain.CombinationOutcome{
				{Query: domain.Query{Term: "cats"}, Records: 5},
			},
		},
	}
	cleanup := setupCollectTest(runner)
	defer cleanup()

	buf, err := execute("collect", "zenodo", "--term", "cats")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Collecting from zenodo...")
	assert.Contains(t, buf.String(), "cats: 5 records")
	assert.Contains(t, buf.String(), "Collected 5 records across 1 combinations (0 failed).")
}

func TestCollectCmd_FlagsReachRequest(t *testing.T) {
	runner := &mockCollectionRunner{
		state: domain.RunState{Status: domain.RunCompleted},
	}
	cleanup := setupCollectTest(runner)
	defer cleanup()

	_, err := execute("collect", "figshare",
		"--term", "cats", "--term", "dogs", "--type", "articles", "--flatten")

	require.NoError(t, err)
	req := runner.request()
	assert.Equal(t, "figshare", req.Repository)
	assert.Equal(t, []string{"cats", "dogs"}, req.Params.Terms)
	assert.Equal(t, []string{"articles"}, req.Params.Types)
	assert.True(t, req.Flatten)
	assert.NotEmpty(t, req.RunID)
}

func TestCollectCmd_ConfigDefaults(t *testing.T) {
	runner := &mockCollectionRunner{
		state: domain.RunState{Status: domain.RunCompleted},
	}
	cleanup := setupCollectTest(runner)
	defer cleanup()

	store := newMockConfigStore()
	store.data["output.flatten"] = true
	store.data["collect.default_types"] = []string{"datasets"}
	store.data["collect.max_retries"] = int64(3)
	configStore = store

	_, err := execute("collect", "openml")

	require.NoError(t, err)
	req := runner.request()
	assert.True(t, req.Flatten)
	assert.Equal(t, []string{"datasets"}, req.Params.Types)
	assert.Equal(t, 3, req.MaxRetries)
}

func TestCollectCmd_FlagsOverrideConfig(t *testing.T) {
	runner := &mockCollectionRunner{
		state: domain.RunState{Status: domain.RunCompleted},
	}
	cleanup := setupCollectTest(runner)
	defer cleanup()

	store := newMockConfigStore()
	store.data["collect.default_types"] = []string{"datasets"}
	configStore = store

	_, err := execute("collect", "openml", "--type", "tasks", "--max-retries", "7")

	require.NoError(t, err)
	req := runner.request()
	assert.Equal(t, []string{"tasks"}, req.Params.Types)
	assert.Equal(t, 7, req.MaxRetries)
}

func TestCollectCmd_FailedCombinationsReported(t *testing.T) {
	runner := &mockCollectionRunner{
		state: domain.RunState{
			Status: domain.RunCompleted,
			Outcomes: []domain.CombinationOutcome{
				{Query: domain.Query{Term: "cats"}, Records: 3},
				{Query: domain.Query{Term: "dogs"}, Err: "rate limited"},
			},
		},
	}
	cleanup := setupCollectTest(runner)
	defer cleanup()

	buf, err := execute("collect", "zenodo", "--term", "cats", "--term", "dogs")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "dogs: failed (rate limited)")
	assert.Contains(t, buf.String(), "(1 failed)")
}

func TestCollectCmd_RunFailed(t *testing.T) {
	runner := &mockCollectionRunner{
		state: domain.RunState{
			Status:      domain.RunFailed,
			LastMessage: "Error during search!",
		},
	}
	cleanup := setupCollectTest(runner)
	defer cleanup()

	_, err := execute("collect", "zenodo", "--term", "cats")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run failed")
}

func TestCollectCmd_StartError(t *testing.T) {
	runner := &mockCollectionRunner{err: domain.ErrAuthRequired}
	cleanup := setupCollectTest(runner)
	defer cleanup()

	_, err := execute("collect", "figshare", "--term", "cats")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection failed")
}

func TestCollectCmd_ServiceNotConfigured(t *testing.T) {
	oldRunner := collectionRunner
	collectionRunner = nil
	defer func() {
		collectionRunner = oldRunner
	}()

	_, err := execute("collect", "zenodo")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection service not configured")
}
