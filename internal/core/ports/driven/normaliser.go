package driven

import (
	"context"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// Normaliser splits an imported file into page images.
// Each normaliser handles specific MIME types (e.g., PDF, PNG).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise returns the page images of raw in page order.
	Normalise(ctx context.Context, raw *domain.RawScan) ([]domain.ImageBlob, error)
}
