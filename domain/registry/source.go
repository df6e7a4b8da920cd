package registry

import (
	"context"
	"fmt"
)

// Page is one page of catalog listings. NextCursor is empty on the last page.
type Page struct {
	records    []Record
	nextCursor string
}

// NewPage creates a Page.
func NewPage(records []Record, nextCursor string) Page {
	return Page{records: records, nextCursor: nextCursor}
}

// Records returns the listings on this page.
func (p Page) Records() []Record {
	result := make([]Record, len(p.records))
	copy(result, p.records)
	return result
}

// NextCursor returns the cursor for the following page, or "" on the last one.
func (p Page) NextCursor() string { return p.nextCursor }

// HasMore reports whether another page follows.
func (p Page) HasMore() bool { return p.nextCursor != "" }

// Source lists the upstream catalog page by page. An empty cursor requests
// the first page.
type Source interface {
	ListPage(ctx context.Context, cursor string) (Page, error)
}

// SourceError indicates the upstream catalog failed to produce a page.
type SourceError struct {
	Cursor     string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Cursor == "" {
		return fmt.Sprintf("catalog listing failed (first page): %v", e.Err)
	}
	return fmt.Sprintf("catalog listing failed at cursor %q: %v", e.Cursor, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error { return e.Err }

// FirstPage reports whether the failure happened before any records were read.
func (e *SourceError) FirstPage() bool { return e.Cursor == "" }
