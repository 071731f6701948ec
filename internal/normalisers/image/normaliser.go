// Package image splits single-image scans into one page each.
package image

import (
	"bytes"
	"context"
	"fmt"
	stdimage "image"

	// Register decoders for every format scanners commonly produce.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles raster image files.
type Normaliser struct{}

// New creates a new image normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"image/png",
		"image/jpeg",
		"image/gif",
		"image/tiff",
		"image/bmp",
		"image/x-ms-bmp",
		"image/webp",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise validates the image header and returns it as a single page.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawScan) ([]domain.ImageBlob, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: raw scan is nil", domain.ErrInvalidInput)
	}

	cfg, format, err := stdimage.DecodeConfig(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageUnreadable, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrImageUnreadable)
	}
	if !domain.FitsPixelBudget(cfg.Width, cfg.Height) {
		return nil, fmt.Errorf("%w: %dx%d exceeds the page pixel limit",
			domain.ErrImageUnreadable, cfg.Width, cfg.Height)
	}

	return []domain.ImageBlob{{
		Name:   raw.Name,
		Format: domain.ImageFormat(format),
		Data:   raw.Content,
	}}, nil
}
