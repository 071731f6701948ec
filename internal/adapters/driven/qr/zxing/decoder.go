// Package zxing decodes QR codes with the gozxing port of ZXing.
package zxing

import (
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.QRDecoder = (*Decoder)(nil)

// ErrNoCode is returned when the image holds no readable QR code.
var ErrNoCode = errors.New("no qr code found")

// Decoder performs single QR decode attempts.
// It never enables the library's inverted-image retry.
type Decoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// New creates a decoder. tryHarder trades speed for accuracy.
func New(tryHarder bool) *Decoder {
	hints := make(map[gozxing.DecodeHintType]interface{})
	if tryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	hints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = []gozxing.BarcodeFormat{gozxing.BarcodeFormat_QR_CODE}
	return &Decoder{hints: hints}
}

// Decode returns the raw text of the first QR code found in img.
func (d *Decoder) Decode(img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", ErrNoCode
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to create bitmap: %w", err)
	}

	// Readers hold per-call state, so each attempt gets its own.
	result, err := qrcode.NewQRCodeReader().Decode(bmp, d.hints)
	if err != nil {
		if _, ok := err.(gozxing.NotFoundException); ok {
			return "", ErrNoCode
		}
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	return result.GetText(), nil
}
