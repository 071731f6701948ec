package driving

import (
	"context"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// PageService manages the session's imported pages.
type PageService interface {
	// Import reads files and directories and creates pending pages.
	// A failing file is reported in the result and never aborts the import.
	Import(ctx context.Context, paths []string) (*ImportReport, error)

	// List returns all pages in import order.
	List(ctx context.Context) ([]domain.PageItem, error)

	// Get retrieves a page by ID.
	Get(ctx context.Context, id string) (*domain.PageItem, error)

	// AssignPayload applies a manual payload to a page.
	// Blank input returns domain.ErrInvalidPayload and changes nothing.
	AssignPayload(ctx context.Context, id, payload string) (*domain.PageItem, error)

	// RenameGroup moves every page of group from onto payload to.
	// Returns the number of pages changed.
	RenameGroup(ctx context.Context, from, to string) (int, error)

	// Clear removes every page and releases its image.
	Clear(ctx context.Context) error

	// Stats summarises the page collection.
	Stats(ctx context.Context) (*domain.Stats, error)
}

// ImportReport describes the outcome of an import.
type ImportReport struct {
	// Pages are the pages created, in sequence order.
	Pages []domain.PageItem

	// Skipped lists files that could not be imported.
	Skipped []SkippedFile
}

// SkippedFile is a file the importer could not turn into pages.
type SkippedFile struct {
	// Path is the file that was skipped.
	Path string

	// Reason explains why.
	Reason string
}
