// Package openml collects entity listings from the OpenML machine
// learning repository. OpenML has no free-text search; collection
// enumerates one of the entity types (datasets, runs, tasks,
// evaluations) through the JSON list API.
package openml

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/curatorhq/curator-cli/internal/collectors"
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
)

const (
	// Name is the repository identifier.
	Name = "openml"

	defaultBaseURL = "https://www.openml.org/api/v1/json"
	pageSize       = 10000
)

// endpointSpec maps a search type onto the list API's path segment,
// its response envelope keys, and the detail endpoint's shape.
// Evaluations carry no id field and expose no detail endpoint.
type endpointSpec struct {
	path      string
	outer     string
	inner     string
	idKey     string
	detailKey string
}

var endpoints = map[string]endpointSpec{
	"datasets":    {path: "data", outer: "data", inner: "dataset", idKey: "did", detailKey: "data_set_description"},
	"runs":        {path: "run", outer: "runs", inner: "run", idKey: "run_id", detailKey: "run"},
	"tasks":       {path: "task", outer: "tasks", inner: "task", idKey: "tid", detailKey: "task"},
	"evaluations": {path: "evaluation", outer: "evaluations", inner: "evaluation"},
}

// Capabilities returns what the OpenML collector supports.
func Capabilities() driven.CollectorCapabilities {
	return driven.CollectorCapabilities{
		SupportsTypes:    true,
		TypeOptions:      []string{"datasets", "runs", "tasks", "evaluations"},
		SupportsMetadata: true,
	}
}

// Collector queries the OpenML JSON API.
type Collector struct {
	collectors.Base

	// BaseURL is the API root. Overridable for tests.
	BaseURL string
}

var (
	_ driven.Collector        = (*Collector)(nil)
	_ driven.MetadataProvider = (*Collector)(nil)
)

// New creates an OpenML collector for one run.
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

// Search enumerates all entities of the query's type. The list API
// paginates by limit/offset path segments and answers 412 once the
// offset runs past the last entity.
func (c *Collector) Search(ctx context.Context, query domain.Query) (*domain.QueryResult, error) {
	spec, ok := endpoints[query.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown openml search type %q", domain.ErrInvalidSearchType, query.Type)
	}

	cursor := collectors.NewPageCursor(pageSize)
	records, pages, err := collectors.CollectPages(ctx, cursor,
		func(ctx context.Context, cur *collectors.PageCursor) ([]domain.Record, error) {
			listURL := fmt.Sprintf("%s/%s/list/limit/%d/offset/%d",
				c.BaseURL, spec.path, cur.Limit, cur.Offset)

			var out map[string]map[string][]domain.Record
			if err := c.Client().GetJSON(ctx, listURL, nil, &out); err != nil {
				var apiErr *collectors.APIError
				if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusPreconditionFailed {
					// 412 is OpenML's end-of-results signal.
					cur.Finish()
					return nil, nil
				}
				return nil, err
			}

			page := out[spec.outer][spec.inner]
			cur.AdvanceOffset(len(page))
			return page, nil
		})

	return &domain.QueryResult{Query: query, Records: records, Pages: pages}, err
}

// MergeKey returns the id field of the query's entity type. Empty for
// evaluations, which have no per-entity detail.
func (c *Collector) MergeKey(query domain.Query) string {
	return endpoints[query.Type].idKey
}

// Metadata fetches the full description of each listed entity. Types
// without a detail endpoint yield no metadata and their search records
// pass through unmerged.
func (c *Collector) Metadata(ctx context.Context, result *domain.QueryResult) ([]domain.Record, error) {
	spec := endpoints[result.Query.Type]
	if spec.idKey == "" {
		return nil, nil
	}

	var metadata []domain.Record
	for _, record := range result.Records {
		id, ok := record.MergeKeyValue(spec.idKey)
		if !ok {
			continue
		}

		var out map[string]domain.Record
		detailURL := fmt.Sprintf("%s/%s/%s", c.BaseURL, spec.path, id)
		if err := c.Client().GetJSON(ctx, detailURL, nil, &out); err != nil {
			if collectors.IsNotFound(err) {
				continue
			}
			return metadata, err
		}

		detail := out[spec.detailKey]
		if detail == nil {
			continue
		}
		// The detail envelope names its id "id"; tag the record with
		// the list API's id field so the join lines up.
		detail[spec.idKey] = id
		metadata = append(metadata, detail)
	}

	return metadata, nil
}
