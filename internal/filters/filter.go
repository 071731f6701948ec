// Package filters provides the pixel transforms applied by the decode chain.
// Every filter is pure: it reads its input buffer and returns a new one.
package filters

import (
	"image"
	"image/draw"
)

// Filter transforms a pixel buffer into a new pixel buffer.
type Filter interface {
	// Name returns the filter name for logging and configuration.
	Name() string

	// Apply returns a transformed copy of src. src is never modified.
	Apply(src *image.NRGBA) *image.NRGBA
}

// ToNRGBA converts any image into a non-premultiplied RGBA buffer
// anchored at the origin. A nil or empty image yields nil.
func ToNRGBA(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// clone copies src into a fresh buffer anchored at the origin.
func clone(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):][:b.Dx()*4]
		copy(dst.Pix[y*dst.Stride:], srcRow)
	}
	return dst
}

// mapPixels applies fn to every pixel of a copy of src. Alpha is preserved.
func mapPixels(src *image.NRGBA, fn func(r, g, b uint8) (uint8, uint8, uint8)) *image.NRGBA {
	dst := clone(src)
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = fn(dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2])
	}
	return dst
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
