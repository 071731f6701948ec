package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// DocumentAssembler renders an ordered list of page images as one
// paginated document.
type DocumentAssembler interface {
	// Assemble writes the document for group name to w.
	Assemble(ctx context.Context, name string, pages []domain.ImageBlob, w io.Writer) error

	// Extension returns the file extension of produced documents, e.g. ".pdf".
	Extension() string
}
