package filters

import (
	"image"
	"math"
)

// Filter names.
const (
	NameIdentity          = "identity"
	NameTopCrop           = "top_crop"
	NameContrastGrayscale = "contrast_grayscale"
	NameBinarize          = "binarize"
	NameInvert            = "invert"
)

// Identity passes the buffer through unchanged.
type Identity struct{}

// Name returns the filter name.
func (Identity) Name() string { return NameIdentity }

// Apply returns a copy of src.
func (Identity) Apply(src *image.NRGBA) *image.NRGBA {
	return clone(src)
}

// TopCrop keeps the top Fraction of the image height at full width.
type TopCrop struct {
	Fraction float64
}

// Name returns the filter name.
func (TopCrop) Name() string { return NameTopCrop }

// Apply returns the top rows of src. Fractions outside (0, 1] are clamped
// and at least one row is always kept.
func (f TopCrop) Apply(src *image.NRGBA) *image.NRGBA {
	frac := f.Fraction
	if math.IsNaN(frac) || frac > 1 {
		frac = 1
	}
	b := src.Bounds()
	rows := int(float64(b.Dy()) * frac)
	if rows < 1 {
		rows = 1
	}
	if rows > b.Dy() {
		rows = b.Dy()
	}
	top := src.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+rows)).(*image.NRGBA)
	return clone(top)
}

// ContrastGrayscale converts to luminance, then scales contrast and
// brightness by percentages where 100 means unchanged.
type ContrastGrayscale struct {
	ContrastPercent   float64
	BrightnessPercent float64
}

// Name returns the filter name.
func (ContrastGrayscale) Name() string { return NameContrastGrayscale }

// Apply returns the adjusted grayscale copy of src.
func (f ContrastGrayscale) Apply(src *image.NRGBA) *image.NRGBA {
	c := f.ContrastPercent / 100
	br := f.BrightnessPercent / 100
	return mapPixels(src, func(r, g, b uint8) (uint8, uint8, uint8) {
		v := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
		v = clamp((v-128)*c + 128)
		v = clamp(v * br)
		out := uint8(math.Round(v))
		return out, out, out
	})
}

// Binarize sets a pixel white when the mean of its channels exceeds
// Threshold and black otherwise.
type Binarize struct {
	Threshold int
}

// Name returns the filter name.
func (Binarize) Name() string { return NameBinarize }

// Apply returns the thresholded copy of src.
func (f Binarize) Apply(src *image.NRGBA) *image.NRGBA {
	return mapPixels(src, func(r, g, b uint8) (uint8, uint8, uint8) {
		// sum > 3*threshold is mean > threshold without rounding
		if int(r)+int(g)+int(b) > 3*f.Threshold {
			return 255, 255, 255
		}
		return 0, 0, 0
	})
}

// Invert flips the polarity of every colour channel.
type Invert struct{}

// Name returns the filter name.
func (Invert) Name() string { return NameInvert }

// Apply returns the inverted copy of src.
func (Invert) Apply(src *image.NRGBA) *image.NRGBA {
	return mapPixels(src, func(r, g, b uint8) (uint8, uint8, uint8) {
		return 255 - r, 255 - g, 255 - b
	})
}
