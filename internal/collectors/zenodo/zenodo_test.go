package zenodo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
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

func windowResponse(total int, hits ...domain.Record) string {
	if hits == nil {
		hits = []domain.Record{}
	}
	body, _ := json.Marshal(map[string]any{
		"hits": map[string]any{"hits": hits, "total": total},
	})
	return string(body)
}

// TestSearch_WalksYearWindows tests that the term is queried one
// creation year at a time, newest first, stopping at the first empty
// year
func TestSearch_WalksYearWindows(t *testing.T) {
	thisYear := time.Now().Year()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queries = append(queries, q)
		switch q {
		case windowQuery("cats", thisYear):
			fmt.Fprint(w, windowResponse(2, domain.Record{"id": 1.0}, domain.Record{"id": 2.0}))
		case windowQuery("cats", thisYear-1):
			fmt.Fprint(w, windowResponse(1, domain.Record{"id": 3.0}))
		case windowQuery("cats", thisYear-2):
			fmt.Fprint(w, windowResponse(0))
		default:
			t.Errorf("unexpected query %q", q)
		}
	}))
	defer srv.Close()

	c := testCollector(t, srv.URL)
	result, err := c.Search(context.Background(), domain.Query{Term: "cats"})

	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Equal(t, float64(1), result.Records[0]["id"])
	assert.Equal(t, float64(3), result.Records[2]["id"])
	assert.Equal(t, 3, result.Pages)
	assert.Len(t, queries, 3, "walk must stop at the first empty year")
}

// TestSearch_PagesWithinWindow tests page/size pagination inside one
// year window
func TestSearch_PagesWithinWindow(t *testing.T) {
	thisYear := time.Now().Year()
	full := make([]domain.Record, pageSize)
	for i := range full {
		full[i] = domain.Record{"id": float64(i)}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == windowQuery("cats", thisYear-1) {
			fmt.Fprint(w, windowResponse(0))
			return
		}
		require.Equal(t, windowQuery("cats", thisYear), q)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		switch page {
		case 1:
			fmt.Fprint(w, windowResponse(pageSize+1, full...))
		case 2:
			fmt.Fprint(w, windowResponse(pageSize+1, domain.Record{"id": "last"}))
		default:
			t.Errorf("unexpected page %d", page)
		}
	}))
	defer srv.Close()

	c := testCollector(t, srv.URL)
	result, err := c.Search(context.Background(), domain.Query{Term: "cats"})

	require.NoError(t, err)
	assert.Len(t, result.Records, pageSize+1)
	assert.Equal(t, "last", result.Records[pageSize]["id"])
	assert.Equal(t, 3, result.Pages)
}

// TestSearch_NoResults tests an empty first window
func TestSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, windowResponse(0))
	}))
	defer srv.Close()

	c := testCollector(t, srv.URL)
	result, err := c.Search(context.Background(), domain.Query{Term: "nothing"})

	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Equal(t, 1, result.Pages)
}

// TestSearch_APIErrorSurfaces tests failure propagation with the
// partial result preserved
func TestSearch_APIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testCollector(t, srv.URL)
	result, err := c.Search(context.Background(), domain.Query{Term: "cats"})

	require.Error(t, err)
	var apiErr *collectors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.True(t, result.Empty())
}

// TestValidate tests that Zenodo rejects type parameters
func TestValidate(t *testing.T) {
	c, err := New(driven.CollectorOptions{})
	require.NoError(t, err)

	assert.NoError(t, c.Validate(domain.SearchParameters{Terms: []string{"cats"}}))
	assert.ErrorIs(t,
		c.Validate(domain.SearchParameters{Terms: []string{"cats"}, Types: []string{"datasets"}}),
		domain.ErrInvalidInput)
	assert.ErrorIs(t,
		c.Validate(domain.SearchParameters{}),
		domain.ErrInvalidSearchTerm)
}
