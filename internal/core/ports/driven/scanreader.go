package driven

import (
	"context"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// ScanReader reads user-supplied files for import.
type ScanReader interface {
	// List resolves a path into importable file paths.
	// A file yields itself; a directory yields its visible files, non-recursively.
	List(ctx context.Context, path string) ([]string, error)

	// Read loads a file and sniffs its MIME type.
	Read(ctx context.Context, path string) (*domain.RawScan, error)
}
