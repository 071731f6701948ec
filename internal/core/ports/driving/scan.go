package driving

import (
	"context"
	"image"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// ScanService runs the decode chain over imported pages.
type ScanService interface {
	// ScanAll decodes every page that is not yet decoded, one at a time,
	// in store order. onProgress is called after each page; it may be nil.
	ScanAll(ctx context.Context, onProgress func(ScanProgress)) (*ScanSummary, error)

	// Rescan runs the decode chain for a single page.
	Rescan(ctx context.Context, id string) (*domain.PageItem, error)

	// DecodeImage runs the decode chain on an image outside the session.
	DecodeImage(ctx context.Context, img image.Image) domain.DecodeResult

	// Status returns the progress of the running batch, if any.
	Status() ScanProgress
}

// ScanProgress represents the current state of a batch scan.
type ScanProgress struct {
	// Running indicates if a batch is in progress.
	Running bool

	// Processed is the count of pages handled so far, skipped pages included.
	Processed int

	// Total is the number of pages in the batch.
	Total int

	// Last is the most recently handled page.
	Last *domain.PageItem
}

// Percent returns progress as 0-100.
func (p ScanProgress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Processed * 100 / p.Total
}

// ScanSummary is the outcome of a batch scan.
type ScanSummary struct {
	// Total is the number of pages considered.
	Total int

	// Skipped is the count of pages already decoded before the batch.
	Skipped int

	// Decoded is the count of pages decoded by this batch.
	Decoded int

	// Unresolved is the count of pages this batch could not decode.
	Unresolved int
}
