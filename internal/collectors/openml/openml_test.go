package openml

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatorhq/curator-cli/internal/collectors"
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
)

func testCollector(t *testing.T, baseURL string) *Collector {
	t.Helper()
	c, err := New(driven.CollectorOptions{})
	require.NoError(t, err)
	c.BaseURL = baseURL
	c.SetClient(collectors.NewClient(collectors.ClientConfig{
		RequestsPerSecond: 10000,
		Retry:             collectors.RetryPolicy{MaxAttempts: 1, Backoff: time.Millisecond},
	}))
	return c
}

// TestSearch_OffsetPaginationUntil412 tests that the offset loop stops
// on OpenML's precondition-failed end signal
func TestSearch_OffsetPaginationUntil412(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case fmt.Sprintf("/data/list/limit/%d/offset/0", pageSize):
			fmt.Fprint(w, `{"data":{"dataset":[{"did":1,"name":"iris"},{"did":2,"name":"adult"}]}}`)
		case fmt.Sprintf("/data/list/limit/%d/offset/2", pageSize):
			w.WriteHeader(http.StatusPreconditionFailed)
			fmt.Fprint(w, `{"error":{"code":"372","message":"No results"}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := testCollector(t, srv.URL)
	result, err := c.Search(context.Background(), domain.Query{Type: "datasets"})

	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "iris", result.Records[0]["name"])
}

// TestSearch_UnknownType tests the type guard
func TestSearch_UnknownType(t *testing.T) {
	c := testCollector(t, "http://unused.invalid")
	_, err := c.Search(context.Background(), domain.Query{Type: "flows"})
	assert.ErrorIs(t, err, domain.ErrInvalidSearchType)
}

// TestMergeKey_PerType tests per-type id fields
func TestMergeKey_PerType(t *testing.T) {
	c, err := New(driven.CollectorOptions{})
	require.NoError(t, err)

	assert.Equal(t, "did", c.MergeKey(domain.Query{Type: "datasets"}))
	assert.Equal(t, "run_id", c.MergeKey(domain.Query{Type: "runs"}))
	assert.Equal(t, "tid", c.MergeKey(domain.Query{Type: "tasks"}))
	assert.Equal(t, "", c.MergeKey(domain.Query{Type: "evaluations"}))
}

// TestMetadata_FetchesDescriptions tests per-entity detail fetching
// with the list id re-tagged onto the detail record
func TestMetadata_FetchesDescriptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/1":
			fmt.Fprint(w, `{"data_set_description":{"id":"1","licence":"Public"}}`)
		case "/data/2":
			http.NotFound(w, r)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := testCollector(t, srv.URL)
	result := &domain.QueryResult{
		Query: domain.Query{Type: "datasets"},
		Records: []domain.Record{
			{"did": float64(1), "name": "iris"},
			{"did": float64(2), "name": "gone"},
		},
	}

	metadata, err := c.Metadata(context.Background(), result)

	require.NoError(t, err)
	require.Len(t, metadata, 1)
	assert.Equal(t, "1", metadata[0]["did"])
	assert.Equal(t, "Public", metadata[0]["licence"])
}

// TestMetadata_EvaluationsHaveNone tests the no-detail type
func TestMetadata_EvaluationsHaveNone(t *testing.T) {
	c, err := New(driven.CollectorOptions{})
	require.NoError(t, err)

	metadata, err := c.Metadata(context.Background(), &domain.QueryResult{
		Query:   domain.Query{Type: "evaluations"},
		Records: []domain.Record{{"function": "area_under_roc_curve"}},
	})

	require.NoError(t, err)
	assert.Empty(t, metadata)
}

// TestValidate_RejectsTerms tests that OpenML refuses term input
func TestValidate_RejectsTerms(t *testing.T) {
	c, err := New(driven.CollectorOptions{})
	require.NoError(t, err)

	assert.NoError(t, c.Validate(domain.SearchParameters{Types: []string{"runs"}}))
	assert.ErrorIs(t,
		c.Validate(domain.SearchParameters{Terms: []string{"cats"}}),
		domain.ErrInvalidInput)
}
