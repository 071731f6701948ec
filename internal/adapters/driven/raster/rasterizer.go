// Package raster decodes stored page images into pixel buffers.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"

	// Scanner output formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
)

// Ensure Rasterizer implements the interface.
var _ driven.Rasterizer = (*Rasterizer)(nil)

// Rasterizer loads blobs from an image store and decodes them.
// Images narrower than minWidth are upscaled so small QR modules
// survive binarisation.
type Rasterizer struct {
	images   driven.ImageStore
	minWidth int
}

// New creates a rasterizer. A minWidth of zero disables upscaling.
func New(images driven.ImageStore, minWidth int) *Rasterizer {
	return &Rasterizer{images: images, minWidth: minWidth}
}

// Rasterize decodes the image behind ref.
func (r *Rasterizer) Rasterize(ctx context.Context, ref string) (*image.NRGBA, error) {
	blob, err := r.images.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	img, err := decode(blob.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrImageUnreadable, ref, err)
	}
	return r.normalise(img), nil
}

func decode(data []byte) (img image.Image, err error) {
	// Some decoders panic on truncated input.
	defer func() {
		if rec := recover(); rec != nil {
			img, err = nil, fmt.Errorf("decoder panic: %v", rec)
		}
	}()

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if !domain.FitsPixelBudget(cfg.Width, cfg.Height) {
		return nil, fmt.Errorf("%dx%d exceeds the page pixel limit", cfg.Width, cfg.Height)
	}

	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty image")
	}
	return img, nil
}

func (r *Rasterizer) normalise(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	// Strips too thin to upscale within the pixel budget keep their size.
	if nh, ok := r.upscaledHeight(w, h); ok {
		dst := image.NewNRGBA(image.Rect(0, 0, r.minWidth, nh))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		return dst
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// upscaledHeight returns the height of a w by h image scaled to minWidth,
// or false when no upscale applies or the result would not fit the budget.
func (r *Rasterizer) upscaledHeight(w, h int) (int, bool) {
	if r.minWidth <= 0 || w >= r.minWidth {
		return 0, false
	}
	nh := int64(h) * int64(r.minWidth) / int64(w)
	if nh < 1 {
		nh = 1
	}
	if nh > domain.MaxPagePixels || !domain.FitsPixelBudget(r.minWidth, int(nh)) {
		return 0, false
	}
	return int(nh), true
}
