package driven

import (
	"context"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// PageStore holds the session's page collection.
// It is the only shared mutable state; all writes after creation go
// through Update so each page completion is a single write.
type PageStore interface {
	// Save appends a new page. Insertion order is the iteration order.
	Save(ctx context.Context, page *domain.PageItem) error

	// Get retrieves a page by ID.
	Get(ctx context.Context, id string) (*domain.PageItem, error)

	// List returns a snapshot copy of all pages in insertion order.
	List(ctx context.Context) ([]domain.PageItem, error)

	// Update applies fn to the stored page under the store's write lock.
	// If fn returns an error nothing is written.
	Update(ctx context.Context, id string, fn func(page *domain.PageItem) error) (*domain.PageItem, error)

	// Clear removes every page.
	Clear(ctx context.Context) error

	// Count returns the number of stored pages.
	Count(ctx context.Context) (int, error)
}
