package driven

import (
	"context"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for an imported file.
// It maintains a priority-ordered list of normalisers and dispatches
// based on MIME type.
type NormaliserRegistry interface {
	// Normalise splits raw using the best matching normaliser.
	// Returns domain.ErrUnsupportedFormat if none matches.
	Normalise(ctx context.Context, raw *domain.RawScan) ([]domain.ImageBlob, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
