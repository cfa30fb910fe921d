// Package dataverse collects dataset and file metadata from the
// Harvard Dataverse repository. Dataverse is searched by term within
// an entry type; the search result already carries the full entry, so
// there is no separate detail endpoint.
package dataverse

import (
	"context"
	"net/url"
	"strconv"

	"github.com/curatorhq/curator-cli/internal/collectors"
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
)

const (
	// Name is the repository identifier.
	Name = "dataverse"

	defaultBaseURL = "https://dataverse.harvard.edu/api"
	pageSize       = 25
)

// Capabilities returns what the Dataverse collector supports.
func Capabilities() driven.CollectorCapabilities {
	return driven.CollectorCapabilities{
		SupportsTerms: true,
		SupportsTypes: true,
		TypeOptions:   []string{"dataset", "file"},
	}
}

// Collector queries the Dataverse search API.
type Collector struct {
	collectors.Base

	// BaseURL is the API root. Overridable for tests.
	BaseURL string
}

var _ driven.Collector = (*Collector)(nil)

// New creates a Dataverse collector for one run. Dataverse keys
// authenticated requests off the X-Dataverse-key header; anonymous
// search works without one.
func New(opts driven.CollectorOptions) (*Collector, error) {
	return &Collector{
		Base: collectors.NewBase(Name, Capabilities(), opts, collectors.ClientConfig{
			TokenHeader: "X-Dataverse-key",
		}),
		BaseURL: defaultBaseURL,
	}, nil
}

// Builder adapts New to the factory's builder signature.
func Builder(opts driven.CollectorOptions) (driven.Collector, error) {
	return New(opts)
}

type searchResponse struct {
	Data struct {
		Items      []domain.Record `json:"items"`
		TotalCount int             `json:"total_count"`
	} `json:"data"`
}

// Search aggregates all Dataverse entries of the query's type matching
// the term, advancing a start offset until a page comes back empty.
func (c *Collector) Search(ctx context.Context, query domain.Query) (*domain.QueryResult, error) {
	searchURL := c.BaseURL + "/search"
	cursor := collectors.NewPageCursor(pageSize)

	records, pages, err := collectors.CollectPages(ctx, cursor,
		func(ctx context.Context, cur *collectors.PageCursor) ([]domain.Record, error) {
			params := url.Values{
				"q":        {query.Term},
				"type":     {query.Type},
				"per_page": {strconv.Itoa(cur.Limit)},
				"start":    {strconv.Itoa(cur.Offset)},
			}

			var out searchResponse
			if err := c.Client().GetJSON(ctx, searchURL, params, &out); err != nil {
				return nil, err
			}

			cur.AdvanceOffset(len(out.Data.Items))
			return out.Data.Items, nil
		})

	return &domain.QueryResult{Query: query, Records: records, Pages: pages}, err
}
