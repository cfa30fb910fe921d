// Package pwc collects benchmark and publication metadata from the
// Papers with Code repository. Searches run a free-text term within a
// resource type; each result is enriched with the related resources
// its type links to (a paper's datasets and methods, a task's
// evaluations, and so on).
package pwc

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
	Name = "paperswithcode"

	mergeKey = "id"

	defaultBaseURL = "https://paperswithcode.com/api/v1"
	pageSize       = 500
)

// relatedResources maps a search type onto the sub-resources fetched
// as that type's metadata.
var relatedResources = map[string][]string{
	"conferences": {"proceedings"},
	"datasets":    {"evaluations"},
	"evaluations": {"metrics", "results"},
	"papers":      {"datasets", "methods", "repositories", "results", "tasks"},
	"tasks":       {"children", "evaluations", "papers", "parents"},
}

// Capabilities returns what the Papers with Code collector supports.
func Capabilities() driven.CollectorCapabilities {
	return driven.CollectorCapabilities{
		SupportsTerms:    true,
		SupportsTypes:    true,
		TypeOptions:      []string{"conferences", "datasets", "evaluations", "papers", "tasks"},
		SupportsMetadata: true,
	}
}

// Collector queries the Papers with Code API.
type Collector struct {
	collectors.Base

	// BaseURL is the API root. Overridable for tests.
	BaseURL string
}

var (
	_ driven.Collector        = (*Collector)(nil)
	_ driven.MetadataProvider = (*Collector)(nil)
)

// New creates a Papers with Code collector for one run.
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

type listResponse struct {
	Count   int             `json:"count"`
	Next    string          `json:"next"`
	Results []domain.Record `json:"results"`
}

// Search aggregates all resources of the query's type matching the
// term, following the response's next link until it runs out.
func (c *Collector) Search(ctx context.Context, query domain.Query) (*domain.QueryResult, error) {
	params := url.Values{
		"q":              {query.Term},
		"items_per_page": {strconv.Itoa(pageSize)},
	}
	records, pages, err := c.paginate(ctx, c.BaseURL+"/"+query.Type+"/", params)
	return &domain.QueryResult{Query: query, Records: records, Pages: pages}, err
}

// MergeKey returns the field joining search records to their related
// resources.
func (c *Collector) MergeKey(domain.Query) string { return mergeKey }

// Metadata fetches the related resources of every search record and
// nests each resource list under its name, keyed by the record id.
// Resources the API no longer knows are skipped.
func (c *Collector) Metadata(ctx context.Context, result *domain.QueryResult) ([]domain.Record, error) {
	resources := relatedResources[result.Query.Type]

	var metadata []domain.Record
	for _, record := range result.Records {
		id, ok := record.MergeKeyValue(mergeKey)
		if !ok {
			continue
		}

		detail := domain.Record{mergeKey: id}
		for _, resource := range resources {
			resourceURL := c.BaseURL + "/" + result.Query.Type + "/" + url.PathEscape(id) + "/" + resource + "/"
			related, _, err := c.paginate(ctx, resourceURL, nil)
			if err != nil {
				if collectors.IsNotFound(err) {
					continue
				}
				return metadata, err
			}
			if len(related) > 0 {
				detail[resource] = related
			}
		}

		if len(detail) > 1 {
			metadata = append(metadata, detail)
		}
	}

	return metadata, nil
}

// paginate walks a listing endpoint through its next links.
func (c *Collector) paginate(ctx context.Context, rawURL string, params url.Values) ([]domain.Record, int, error) {
	cursor := collectors.NewPageCursor(pageSize)

	return collectors.CollectPages(ctx, cursor,
		func(ctx context.Context, cur *collectors.PageCursor) ([]domain.Record, error) {
			var out listResponse

			if cur.NextURL != "" {
				if err := c.Client().GetJSON(ctx, cur.NextURL, nil, &out); err != nil {
					return nil, err
				}
			} else {
				if err := c.Client().GetJSON(ctx, rawURL, params, &out); err != nil {
					return nil, err
				}
			}

			cur.SetNextURL(out.Next)
			return out.Results, nil
		})
}
