package services

import (
	"image"
	"image/color"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driven/qr/zxing"
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

func TestDecodeEngine_RawStageFirst(t *testing.T) {
	decoder := &funcDecoder{fn: func(*image.NRGBA) (string, error) { return "DOC1", nil }}
	engine := NewDecodeEngine(decoder, domain.DefaultDecodeSettings())

	result := engine.Scan(pattern(0, 255))

	assert.True(t, result.Found)
	assert.Equal(t, "DOC1", result.Payload)
	assert.Equal(t, domain.StageRaw, result.Stage)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, decoder.Calls())
}

func TestDecodeEngine_TopCropSeesOnlyTopRows(t *testing.T) {
	decoder := &funcDecoder{fn: func(img *image.NRGBA) (string, error) {
		if img.Bounds().Dy() == 4 {
			return "TOP", nil
		}
		return "", errNoCode
	}}
	engine := NewDecodeEngine(decoder, domain.DefaultDecodeSettings())

	result := engine.Scan(pattern(0, 255))

	assert.Equal(t, domain.StageTopCrop, result.Stage)
	assert.Equal(t, "TOP", result.Payload)
	assert.Equal(t, 2, result.Attempts)
}

func TestDecodeEngine_LowContrastResolvesAtBinarize(t *testing.T) {
	engine := NewDecodeEngine(binaryDecoder("DOC2"), domain.DefaultDecodeSettings())

	// 118 and 150 only separate after contrast stretch and thresholding
	result := engine.Scan(pattern(118, 150))

	require.True(t, result.Found)
	assert.Equal(t, "DOC2", result.Payload)
	assert.Equal(t, domain.StageBinarize, result.Stage)
	assert.Equal(t, 4, result.Attempts)
}

func TestDecodeEngine_InvertedResolvesAtInvert(t *testing.T) {
	engine := NewDecodeEngine(binaryDecoder("DOC3"), domain.DefaultDecodeSettings())

	result := engine.Scan(pattern(150, 118))

	require.True(t, result.Found)
	assert.Equal(t, "DOC3", result.Payload)
	assert.Equal(t, domain.StageInvert, result.Stage)
	assert.Equal(t, 5, result.Attempts)
}

func TestDecodeEngine_ExhaustedChain(t *testing.T) {
	decoder := &funcDecoder{fn: func(*image.NRGBA) (string, error) { return "", errNoCode }}
	engine := NewDecodeEngine(decoder, domain.DefaultDecodeSettings())

	result := engine.Scan(pattern(0, 255))

	assert.False(t, result.Found)
	assert.Empty(t, result.Payload)
	assert.Equal(t, domain.StageNone, result.Stage)
	assert.Equal(t, 5, result.Attempts)
	assert.Equal(t, 5, decoder.Calls())
}

func TestDecodeEngine_TrimsPayload(t *testing.T) {
	decoder := &funcDecoder{fn: func(*image.NRGBA) (string, error) { return "  DOC4\n", nil }}
	result := NewDecodeEngine(decoder, domain.DefaultDecodeSettings()).Scan(pattern(0, 255))

	assert.Equal(t, "DOC4", result.Payload)
}

func TestDecodeEngine_BlankPayloadIsMiss(t *testing.T) {
	decoder := &funcDecoder{fn: func(*image.NRGBA) (string, error) { return "   ", nil }}
	result := NewDecodeEngine(decoder, domain.DefaultDecodeSettings()).Scan(pattern(0, 255))

	assert.False(t, result.Found)
	assert.Equal(t, 5, result.Attempts)
}

func TestDecodeEngine_DecoderPanicIsMiss(t *testing.T) {
	calls := 0
	decoder := &funcDecoder{fn: func(*image.NRGBA) (string, error) {
		calls++
		if calls == 1 {
			panic("corrupt bitmap")
		}
		return "DOC5", nil
	}}
	result := NewDecodeEngine(decoder, domain.DefaultDecodeSettings()).Scan(pattern(0, 255))

	assert.True(t, result.Found)
	assert.Equal(t, domain.StageTopCrop, result.Stage)
}

func TestDecodeEngine_UnusableInput(t *testing.T) {
	decoder := &funcDecoder{fn: func(*image.NRGBA) (string, error) { return "DOC6", nil }}
	engine := NewDecodeEngine(decoder, domain.DefaultDecodeSettings())

	assert.False(t, engine.Scan(nil).Found)
	assert.False(t, engine.Scan(image.NewNRGBA(image.Rect(0, 0, 0, 0))).Found)
	assert.Zero(t, decoder.Calls())
}

func TestDecodeEngine_DoesNotMutateInput(t *testing.T) {
	img := pattern(118, 150)
	before := append([]uint8(nil), img.Pix...)

	NewDecodeEngine(binaryDecoder("X"), domain.DefaultDecodeSettings()).Scan(img)

	assert.Equal(t, before, img.Pix)
}

func qrFixture(t *testing.T, text string, inverted bool) *image.NRGBA {
	t.Helper()
	matrix, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, 240, 240, nil)
	require.NoError(t, err)

	dark, light := color.NRGBA{A: 255}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if inverted {
		dark, light = light, dark
	}
	img := image.NewNRGBA(image.Rect(0, 0, matrix.GetWidth(), matrix.GetHeight()))
	for y := 0; y < matrix.GetHeight(); y++ {
		for x := 0; x < matrix.GetWidth(); x++ {
			if matrix.Get(x, y) {
				img.SetNRGBA(x, y, dark)
			} else {
				img.SetNRGBA(x, y, light)
			}
		}
	}
	return img
}

func TestDecodeEngine_WithZXing(t *testing.T) {
	engine := NewDecodeEngine(zxing.New(true), domain.DefaultDecodeSettings())

	t.Run("plain code decodes raw", func(t *testing.T) {
		result := engine.Scan(qrFixture(t, "ORDER-10", false))
		require.True(t, result.Found)
		assert.Equal(t, "ORDER-10", result.Payload)
		assert.Equal(t, domain.StageRaw, result.Stage)
	})

	t.Run("inverted code needs the invert stage", func(t *testing.T) {
		result := engine.Scan(qrFixture(t, "ORDER-11", true))
		require.True(t, result.Found)
		assert.Equal(t, "ORDER-11", result.Payload)
		assert.Equal(t, domain.StageInvert, result.Stage)
	})

	t.Run("blank page is unresolved", func(t *testing.T) {
		assert.False(t, engine.Scan(pattern(255, 255)).Found)
	})
}
