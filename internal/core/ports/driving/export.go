package driving

import (
	"context"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// ExportService assembles groups into documents on disk.
type ExportService interface {
	// ExportAll writes one document per group into dir.
	ExportAll(ctx context.Context, dir string) ([]domain.ExportedDocument, error)

	// ExportGroup writes the document for a single group into dir.
	ExportGroup(ctx context.Context, payload, dir string) (*domain.ExportedDocument, error)
}
