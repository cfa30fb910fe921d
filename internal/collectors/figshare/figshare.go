// Package figshare collects item metadata from the Figshare
// repository. Figshare is searched by term within an item type
// (articles, collections, projects); each item's detail endpoint
// supplies the full metadata merged back onto the search record.
package figshare

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/curatorhq/curator-cli/internal/collectors"
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
)

const (
	// Name is the repository identifier.
	Name = "figshare"

	mergeKey = "id"

	defaultBaseURL = "https://api.figshare.com/v2"
	pageSize       = 1000
)

// Capabilities returns what the Figshare collector supports.
func Capabilities() driven.CollectorCapabilities {
	// Search works anonymously; a personal token only raises the rate
	// limits, so auth stays optional.
	return driven.CollectorCapabilities{
		SupportsTerms:    true,
		SupportsTypes:    true,
		TypeOptions:      []string{"articles", "collections", "projects"},
		SupportsMetadata: true,
	}
}

// Collector queries the Figshare API.
type Collector struct {
	collectors.Base

	// BaseURL is the API root. Overridable for tests.
	BaseURL string
}

var (
	_ driven.Collector        = (*Collector)(nil)
	_ driven.MetadataProvider = (*Collector)(nil)
)

// New creates a Figshare collector for one run. Figshare expects its
// personal token under the "token" Authorization scheme rather than
// "Bearer".
func New(opts driven.CollectorOptions) (*Collector, error) {
	return &Collector{
		Base: collectors.NewBase(Name, Capabilities(), opts, collectors.ClientConfig{
			TokenType: "token",
		}),
		BaseURL: defaultBaseURL,
	}, nil
}

// Builder adapts New to the factory's builder signature.
func Builder(opts driven.CollectorOptions) (driven.Collector, error) {
	return New(opts)
}

// Search aggregates all Figshare items of the query's type matching
// the term. Pages are bare JSON arrays; a page shorter than the page
// size ends the loop.
func (c *Collector) Search(ctx context.Context, query domain.Query) (*domain.QueryResult, error) {
	searchURL := c.BaseURL + "/" + query.Type
	cursor := collectors.NewPageCursor(pageSize)

	records, pages, err := collectors.CollectPages(ctx, cursor,
		func(ctx context.Context, cur *collectors.PageCursor) ([]domain.Record, error) {
			params := url.Values{
				"search_for":      {query.Term},
				"order_direction": {"asc"},
				"page":            {strconv.Itoa(cur.Page)},
				"page_size":       {strconv.Itoa(cur.Limit)},
			}

			var page []domain.Record
			if err := c.Client().GetJSON(ctx, searchURL, params, &page); err != nil {
				return nil, err
			}

			if len(page) < cur.Limit {
				cur.Finish()
			} else {
				cur.AdvancePage()
			}
			return page, nil
		})

	return &domain.QueryResult{Query: query, Records: records, Pages: pages}, err
}

// MergeKey returns the field joining search records to item details.
func (c *Collector) MergeKey(domain.Query) string { return mergeKey }

// Metadata fetches the detail view of every item in the search result.
// Items that have disappeared since the search are skipped.
func (c *Collector) Metadata(ctx context.Context, result *domain.QueryResult) ([]domain.Record, error) {
	var metadata []domain.Record

	for _, record := range result.Records {
		id, ok := record.MergeKeyValue(mergeKey)
		if !ok {
			continue
		}

		var detail domain.Record
		detailURL := fmt.Sprintf("%s/%s/%s", c.BaseURL, result.Query.Type, id)
		if err := c.Client().GetJSON(ctx, detailURL, nil, &detail); err != nil {
			if collectors.IsNotFound(err) {
				continue
			}
			return metadata, err
		}

		metadata = append(metadata, detail)
	}

	return metadata, nil
}
