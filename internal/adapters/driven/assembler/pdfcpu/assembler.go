// Package pdfcpu assembles page images into PDF documents using pdfcpu.
package pdfcpu

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	// Decoders for formats pdfcpu cannot embed directly.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
)

// Ensure Assembler implements the interface.
var _ driven.DocumentAssembler = (*Assembler)(nil)

// DefaultLayout places each image centred on an A4 page, scaled to fit.
const DefaultLayout = "formsize:A4, position:c, scalefactor:1.0 rel"

// Assembler writes one PDF page per image.
type Assembler struct {
	layout string
	// pdfcpu keeps package-level state while writing.
	mu sync.Mutex
}

// New creates an assembler using the given pdfcpu import description.
// An empty layout selects DefaultLayout.
func New(layout string) *Assembler {
	if layout == "" {
		layout = DefaultLayout
	}
	return &Assembler{layout: layout}
}

// Extension returns the file extension of assembled documents.
func (a *Assembler) Extension() string {
	return ".pdf"
}

// Assemble writes pages, in order, as a PDF to w.
func (a *Assembler) Assemble(ctx context.Context, name string, pages []domain.ImageBlob, w io.Writer) error {
	if len(pages) == 0 {
		return fmt.Errorf("%w: %s has no pages", domain.ErrNothingToExport, name)
	}

	readers := make([]io.Reader, 0, len(pages))
	for i := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := embeddable(&pages[i])
		if err != nil {
			return fmt.Errorf("%s page %d: %w", name, i+1, err)
		}
		readers = append(readers, r)
	}

	imp, err := api.Import(a.layout, types.POINTS)
	if err != nil {
		return fmt.Errorf("invalid page layout %q: %w", a.layout, err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := api.ImportImages(nil, w, readers, imp, conf); err != nil {
		return fmt.Errorf("assemble %s: %w", name, err)
	}
	return nil
}

// embeddable returns a reader over an encoding pdfcpu can embed.
// JPEG and PNG pass through; everything else is re-encoded as PNG.
func embeddable(blob *domain.ImageBlob) (io.Reader, error) {
	switch blob.Format {
	case domain.FormatJPEG, domain.FormatPNG:
		return bytes.NewReader(blob.Data), nil
	}

	img, _, err := image.Decode(bytes.NewReader(blob.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageUnreadable, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &buf, nil
}
