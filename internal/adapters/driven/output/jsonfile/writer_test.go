package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

// TestWriter_WritesPerCombinationFiles tests the output layout
func TestWriter_WritesPerCombinationFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	records := []domain.Record{{"id": "a", "title": "A"}}
	err = w.Write(context.Background(), "figshare",
		domain.Query{Term: "cats", Type: "articles"}, records)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "figshare", "cats_articles.json"))
	require.NoError(t, err)

	var got []domain.Record
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0]["title"])
}

// TestWriter_EmptyRecordsNoFile tests that empty results leave no file
func TestWriter_EmptyRecordsNoFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), "zenodo", domain.Query{Term: "cats"}, nil))

	_, err = os.Stat(filepath.Join(dir, "zenodo"))
	assert.True(t, os.IsNotExist(err))
}

// TestWriter_SanitisesTerms tests that unsafe characters in terms
// cannot escape the output directory
func TestWriter_SanitisesTerms(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	err = w.Write(context.Background(), "zenodo",
		domain.Query{Term: "cats/dogs: a study?"},
		[]domain.Record{{"id": "1"}})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "zenodo", "cats_dogs_ a study_.json"))
	assert.NoError(t, err)
}

// TestWriter_CancelledContext tests the cancellation checkpoint
func TestWriter_CancelledContext(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = w.Write(ctx, "zenodo", domain.Query{Term: "cats"}, []domain.Record{{"id": "1"}})
	assert.ErrorIs(t, err, context.Canceled)
}
