// Package filesystem reads scanned files from local disk and watches
// inbox directories for new arrivals.
package filesystem

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.ScanReader = (*Reader)(nil)

// Reader loads scans from the local filesystem.
type Reader struct{}

// NewReader creates a filesystem reader.
func NewReader() *Reader {
	return &Reader{}
}

// List resolves path into the files it names. Directories are read one
// level deep; hidden entries and subdirectories are skipped.
func (r *Reader) List(ctx context.Context, path string) ([]string, error) {
	path = ResolvePath(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	return files, nil
}

// Read loads the file at path and detects its MIME type.
func (r *Reader) Read(ctx context.Context, path string) (*domain.RawScan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = ResolvePath(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, err
	}

	return &domain.RawScan{
		URI:      path,
		Name:     filepath.Base(path),
		MIMEType: detectMIMEType(path, content),
		Content:  content,
	}, nil
}

// detectMIMEType sniffs content, falling back to the file extension
// when the content is not recognised.
func detectMIMEType(path string, content []byte) string {
	detected := mimetype.Detect(content)
	if detected.String() != "application/octet-stream" {
		return stripParams(detected.String())
	}
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return stripParams(byExt)
	}
	return "application/octet-stream"
}

func stripParams(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		return strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}

// isHidden reports whether any path element starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == filepath.Separator }) {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
