// Package pdf splits scanned PDF files into page images.
//
// Scanners embed each page as a single raster image, so pages are recovered
// by extracting the largest image placed on each page rather than by
// rendering the page content stream.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF files.
type Normaliser struct {
	// pdfcpu keeps package-level state while extracting.
	mu sync.Mutex
}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise returns one blob per PDF page that carries an image.
// Pages without any raster image are skipped with a warning.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawScan) ([]domain.ImageBlob, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: raw scan is nil", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCount(bytes.NewReader(raw.Content), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageUnreadable, err)
	}

	best := make(map[int]domain.ImageBlob, pageCount)
	area := make(map[int]int, pageCount)

	digest := func(img model.Image, _ bool, _ int) error {
		if img.Thumb || img.Reader == nil {
			return nil
		}
		format, ok := imageFormat(img.FileType)
		if !ok {
			logger.Debug("pdf %s page %d: skipping %s image", raw.Name, img.PageNr, img.FileType)
			return nil
		}
		if !domain.FitsPixelBudget(img.Width, img.Height) {
			logger.Warn("pdf %s page %d: %dx%d image exceeds the page pixel limit, skipping",
				raw.Name, img.PageNr, img.Width, img.Height)
			return nil
		}
		a := img.Width * img.Height
		if prev, seen := area[img.PageNr]; seen && prev >= a {
			return nil
		}
		data, err := io.ReadAll(img)
		if err != nil {
			return err
		}
		area[img.PageNr] = a
		best[img.PageNr] = domain.ImageBlob{
			Name:   raw.Name,
			Format: format,
			Data:   data,
			Page:   img.PageNr,
		}
		return nil
	}

	if err := api.ExtractImages(bytes.NewReader(raw.Content), nil, digest, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageUnreadable, err)
	}

	blobs := make([]domain.ImageBlob, 0, len(best))
	for page := 1; page <= pageCount; page++ {
		blob, ok := best[page]
		if !ok {
			logger.Warn("pdf %s page %d has no scanned image, skipping", raw.Name, page)
			continue
		}
		blobs = append(blobs, blob)
	}
	if len(blobs) == 0 {
		return nil, fmt.Errorf("%w: %s contains no scanned pages", domain.ErrImageUnreadable, raw.Name)
	}
	return blobs, nil
}

func imageFormat(fileType string) (domain.ImageFormat, bool) {
	switch strings.ToLower(fileType) {
	case "jpg", "jpeg":
		return domain.FormatJPEG, true
	case "png":
		return domain.FormatPNG, true
	case "tif", "tiff":
		return domain.FormatTIFF, true
	default:
		return "", false
	}
}
