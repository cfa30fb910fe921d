package collectors

import (
	"context"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

// PageCursor is the mutable pagination reference driving a search
// loop. Collectors advance it from each response until the repository
// signals completion; exactly one addressing mode (next-page URL, page
// number, or offset) is meaningful per repository.
type PageCursor struct {
	// NextURL is the next-page URL for link-style pagination.
	NextURL string

	// Page is the 1-based page number for page-style pagination.
	Page int

	// Offset is the record offset for offset-style pagination.
	Offset int

	// Limit is the page size requested from the API.
	Limit int

	// done marks the cursor exhausted.
	done bool
}

// NewPageCursor returns a cursor starting at page 1 / offset 0 with
// the given page size.
func NewPageCursor(limit int) *PageCursor {
	return &PageCursor{Page: 1, Limit: limit}
}

// Done reports whether pagination has finished.
func (c *PageCursor) Done() bool { return c.done }

// Finish marks the cursor exhausted.
func (c *PageCursor) Finish() { c.done = true }

// AdvancePage moves to the next page number.
func (c *PageCursor) AdvancePage() { c.Page++ }

// AdvanceOffset moves the offset forward by n records. A zero advance
// finishes the cursor, since the API returned no further records.
func (c *PageCursor) AdvanceOffset(n int) {
	if n <= 0 {
		c.Finish()
		return
	}
	c.Offset += n
}

// SetNextURL records the next-page URL from a response envelope; an
// empty URL finishes the cursor.
func (c *PageCursor) SetNextURL(next string) {
	if next == "" {
		c.Finish()
		return
	}
	c.NextURL = next
}

// FetchPage retrieves one page of records for a cursor and advances
// it. Implementations return the page's records; an empty page with
// the cursor left unfinished is treated as exhaustion.
type FetchPage func(ctx context.Context, cursor *PageCursor) ([]domain.Record, error)

// CollectPages drives a pagination loop to exhaustion, aggregating
// records in order. The context is checked before every page fetch so
// a terminate request stops the loop at the next page boundary. The
// fetched page count is returned alongside the records.
func CollectPages(ctx context.Context, cursor *PageCursor, fetch FetchPage) ([]domain.Record, int, error) {
	var records []domain.Record
	pages := 0

	for !cursor.Done() {
		// Cancellation checkpoint before each page fetch.
		if err := ctx.Err(); err != nil {
			return records, pages, err
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			return records, pages, err
		}
		pages++

		if len(page) == 0 && !cursor.Done() {
			// An empty page without an explicit end signal still
			// means the results are exhausted.
			break
		}
		records = append(records, page...)
	}

	return records, pages, nil
}
