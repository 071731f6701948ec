package driven

import (
	"context"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// ImageStore holds encoded page images for the session.
type ImageStore interface {
	// Put stores a blob and returns its reference.
	Put(ctx context.Context, blob *domain.ImageBlob) (string, error)

	// Get retrieves a blob by reference.
	Get(ctx context.Context, ref string) (*domain.ImageBlob, error)

	// Release drops the given references. Unknown references are ignored.
	Release(ctx context.Context, refs ...string) error

	// Count returns the number of held blobs.
	Count() int
}
