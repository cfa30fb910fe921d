package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

func setupHistoryTest(store *mockHistoryStore) func() {
	oldHistory := historyStore
	historyStore = store
	historyLimit = 20
	return func() {
		historyStore = oldHistory
	}
}

func historyRecord(id string) domain.RunRecord {
	return domain.RunRecord{
		ID:         id,
		Repository: "zenodo",
		Terms:      []string{"cats", "dogs"},
		Status:     domain.RunCompleted,
		Records:    12,
		Failures:   1,
		Message:    "Finished collection.",
		StartedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		EndedAt:    time.Date(2026, 3, 1, 10, 4, 0, 0, time.UTC),
	}
}

func TestHistoryCmd_Use(t *testing.T) {
	assert.Equal(t, "history", historyCmd.Use)
}

func TestHistoryCmd_ListsRuns(t *testing.T) {
	cleanup := setupHistoryTest(&mockHistoryStore{
		records: []domain.RunRecord{historyRecord("run-1"), historyRecord("run-2")},
	})
	defer cleanup()

	buf, err := execute("history")

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "zenodo")
	assert.Contains(t, out, "completed")
}

func TestHistoryCmd_Empty(t *testing.T) {
	cleanup := setupHistoryTest(&mockHistoryStore{})
	defer cleanup()

	buf, err := execute("history")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No runs recorded.")
}

func TestHistoryShowCmd(t *testing.T) {
	cleanup := setupHistoryTest(&mockHistoryStore{
		records: []domain.RunRecord{historyRecord("run-1")},
	})
	defer cleanup()

	buf, err := execute("history", "show", "run-1")

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "Terms:      cats, dogs")
	assert.Contains(t, out, "Records:    12")
	assert.Contains(t, out, "Failures:   1")
	assert.Contains(t, out, "Finished collection.")
}

func TestHistoryShowCmd_NotFound(t *testing.T) {
	cleanup := setupHistoryTest(&mockHistoryStore{})
	defer cleanup()

	_, err := execute("history", "show", "ghost")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run ghost not found")
}

func TestHistoryCmd_ServiceNotConfigured(t *testing.T) {
	oldHistory := historyStore
	historyStore = nil
	defer func() {
		historyStore = oldHistory
	}()

	_, err := execute("history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run history not configured")
}
