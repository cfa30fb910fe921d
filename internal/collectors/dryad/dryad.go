// Package dryad collects dataset metadata from the DataDryad
// repository. Dryad is searched by free-text term; each dataset's
// latest version exposes a file listing used as per-record metadata.
package dryad

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/curatorhq/curator-cli/internal/collectors"
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
)

const (
	// Name is the repository identifier.
	Name = "dryad"

	// mergeKey joins search records with file metadata. Search records
	// are tagged with the version id extracted from their stash links.
	mergeKey = "version"

	defaultBaseURL = "https://datadryad.org/api/v2"
	pageSize       = 100
)

// Capabilities returns what the Dryad collector supports.
func Capabilities() driven.CollectorCapabilities {
	return driven.CollectorCapabilities{
		SupportsTerms:    true,
		SupportsMetadata: true,
	}
}

// Collector queries the Dryad search and versions APIs.
type Collector struct {
	collectors.Base

	// BaseURL is the API root. Overridable for tests.
	BaseURL string
}

var (
	_ driven.Collector        = (*Collector)(nil)
	_ driven.MetadataProvider = (*Collector)(nil)
)

// New creates a Dryad collector for one run.
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
	Count    int                        `json:"count"`
	Total    int                        `json:"total"`
	Embedded map[string][]domain.Record `json:"_embedded"`
}

// Search aggregates all Dryad datasets matching the term, page by
// page. Each record is tagged with its version id so file metadata can
// be joined to it later.
func (c *Collector) Search(ctx context.Context, query domain.Query) (*domain.QueryResult, error) {
	records, pages, err := c.paginate(ctx, c.BaseURL+"/search", url.Values{
		"q": {query.Term},
	}, "stash:datasets")

	for _, record := range records {
		if id := versionID(record); id != "" {
			record[mergeKey] = id
		}
	}

	return &domain.QueryResult{Query: query, Records: records, Pages: pages}, err
}

// MergeKey returns the field joining search records to file metadata.
func (c *Collector) MergeKey(domain.Query) string { return mergeKey }

// Metadata fetches the file listing of each dataset's version. Records
// without an extractable version id are skipped, leaving their search
// output unmerged.
func (c *Collector) Metadata(ctx context.Context, result *domain.QueryResult) ([]domain.Record, error) {
	var metadata []domain.Record

	for _, record := range result.Records {
		id, ok := record.MergeKeyValue(mergeKey)
		if !ok {
			continue
		}

		files, _, err := c.paginate(ctx, c.BaseURL+"/versions/"+url.PathEscape(id)+"/files", nil, "stash:files")
		if err != nil {
			if collectors.IsNotFound(err) {
				continue
			}
			return metadata, err
		}

		// A version's files are folded into one metadata record so the
		// join stays one-to-one on the version id.
		metadata = append(metadata, domain.Record{
			mergeKey: id,
			"files":  files,
		})
	}

	return metadata, nil
}

// paginate walks a Dryad collection endpoint, extracting embedded
// records under the given stash key until a page comes back empty.
func (c *Collector) paginate(ctx context.Context, rawURL string, params url.Values, embedKey string) ([]domain.Record, int, error) {
	cursor := collectors.NewPageCursor(pageSize)

	return collectors.CollectPages(ctx, cursor,
		func(ctx context.Context, cur *collectors.PageCursor) ([]domain.Record, error) {
			pageParams := url.Values{
				"page":     {strconv.Itoa(cur.Page)},
				"per_page": {strconv.Itoa(cur.Limit)},
			}
			for key, values := range params {
				pageParams[key] = values
			}

			var out searchResponse
			if err := c.Client().GetJSON(ctx, rawURL, pageParams, &out); err != nil {
				return nil, err
			}

			page := out.Embedded[embedKey]
			if len(page) < cur.Limit {
				cur.Finish()
			} else {
				cur.AdvancePage()
			}
			return page, nil
		})
}

// versionID extracts the dataset version id from a search record's
// stash links ("stash:version" href, last path segment).
func versionID(record domain.Record) string {
	links, ok := record["_links"].(map[string]any)
	if !ok {
		return ""
	}
	version, ok := links["stash:version"].(map[string]any)
	if !ok {
		return ""
	}
	href, _ := version["href"].(string)
	if href == "" {
		return ""
	}
	parts := strings.Split(href, "/")
	return parts[len(parts)-1]
}
