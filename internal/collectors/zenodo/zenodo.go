// Package zenodo collects record metadata from the Zenodo research
// repository. Zenodo is searched by free-text term only, one creation
// year at a time; it exposes no per-record detail endpoint beyond what
// the search already returns.
package zenodo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/curatorhq/curator-cli/internal/collectors"
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
)

const (
	// Name is the repository identifier.
	Name = "zenodo"

	defaultBaseURL = "https://zenodo.org/api"
	pageSize       = 1000
)

// Capabilities returns what the Zenodo collector supports.
func Capabilities() driven.CollectorCapabilities {
	return driven.CollectorCapabilities{
		SupportsTerms: true,
	}
}

// Collector queries the Zenodo records API.
type Collector struct {
	collectors.Base

	// BaseURL is the API root. Overridable for tests.
	BaseURL string
}

var _ driven.Collector = (*Collector)(nil)

// New creates a Zenodo collector for one run.
func New(opts driven.CollectorOptions) (*Collector, error) {
	return &Collector{
		Base:    collectors.NewBase(Name, Capabilities(), opts, collectors.ClientConfig{}),
		BaseURL: defaultBaseURL,
	}, nil
}

// Builder adapts New to the factory's builder signature.
func Builder(opts driven.CollectorOptions) (driven.Collector, error) {
	return New(opts)
}

type searchResponse struct {
	Hits struct {
		Hits  []domain.Record `json:"hits"`
		Total int             `json:"total"`
	} `json:"hits"`
}

// Search aggregates all Zenodo records matching the term. Zenodo caps
// how deep its pagination goes, so the term is queried one creation
// year at a time, newest first, paging within each window. The walk
// ends at the first year whose window reports no hits at all.
func (c *Collector) Search(ctx context.Context, query domain.Query) (*domain.QueryResult, error) {
	result := &domain.QueryResult{Query: query}

	for year := time.Now().Year(); ; year-- {
		total := 0
		cursor := collectors.NewPageCursor(pageSize)

		records, pages, err := collectors.CollectPages(ctx, cursor,
			func(ctx context.Context, cur *collectors.PageCursor) ([]domain.Record, error) {
				params := url.Values{
					"q":    {windowQuery(query.Term, year)},
					"page": {strconv.Itoa(cur.Page)},
					"size": {strconv.Itoa(cur.Limit)},
				}

				var out searchResponse
				if err := c.Client().GetJSON(ctx, c.BaseURL+"/records", params, &out); err != nil {
					return nil, err
				}

				total = out.Hits.Total
				if len(out.Hits.Hits) < cur.Limit {
					cur.Finish()
				} else {
					cur.AdvancePage()
				}
				return out.Hits.Hits, nil
			})

		result.Records = append(result.Records, records...)
		result.Pages += pages
		if err != nil {
			return result, err
		}
		if total == 0 {
			return result, nil
		}
	}
}

// windowQuery scopes a term to records created within one year.
func windowQuery(term string, year int) string {
	return fmt.Sprintf("%s AND created:[%d-01-01 TO %d-12-31]", term, year, year)
}
