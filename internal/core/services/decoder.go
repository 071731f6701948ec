package services

import (
	"image"
	"strings"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qrdoc-cli/internal/filters"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

// chainStep is one stage of the decode chain.
type chainStep struct {
	stage  domain.DecodeStage
	filter filters.Filter

	// chained steps transform the previous step's buffer instead of the raw image
	chained bool
}

// chainLayout is the fixed attempt order, cheapest and most faithful first.
var chainLayout = []struct {
	stage   domain.DecodeStage
	filter  string
	chained bool
}{
	{domain.StageRaw, filters.NameIdentity, false},
	{domain.StageTopCrop, filters.NameTopCrop, false},
	{domain.StageContrast, filters.NameContrastGrayscale, false},
	{domain.StageBinarize, filters.NameBinarize, true},
	{domain.StageInvert, filters.NameInvert, true},
}

// DecodeEngine runs the ordered decode chain on a page image and returns
// the first payload found.
type DecodeEngine struct {
	decoder driven.QRDecoder
	steps   []chainStep
}

// NewDecodeEngine builds the chain from the given settings.
func NewDecodeEngine(decoder driven.QRDecoder, cfg domain.DecodeSettings) *DecodeEngine {
	registry := filters.DefaultRegistry()
	steps := make([]chainStep, 0, len(chainLayout))
	for _, l := range chainLayout {
		f, err := registry.Build(l.filter, cfg)
		if err != nil {
			// built-in names are always registered
			panic(err)
		}
		steps = append(steps, chainStep{stage: l.stage, filter: f, chained: l.chained})
	}
	return &DecodeEngine{decoder: decoder, steps: steps}
}

// Scan decodes img. It never fails: unusable input and exhausted chains
// both yield a result with Found set to false.
func (e *DecodeEngine) Scan(img image.Image) domain.DecodeResult {
	raw := safeNRGBA(img)
	if raw == nil {
		logger.Debug("decode: no usable image")
		return domain.DecodeResult{}
	}

	var result domain.DecodeResult
	prev := raw
	for i, step := range e.steps {
		src := raw
		if step.chained {
			src = prev
		}
		buf := step.filter.Apply(src)
		prev = buf
		result.Attempts = i + 1

		payload, ok := e.attempt(buf)
		if ok {
			logger.Debug("decode: %s stage matched", step.stage)
			result.Payload = payload
			result.Stage = step.stage
			result.Found = true
			return result
		}
		logger.Debug("decode: %s stage found nothing", step.stage)
	}
	return result
}

// attempt runs one raw decode, treating panics and blank payloads as misses.
func (e *DecodeEngine) attempt(buf *image.NRGBA) (payload string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("decode: decoder panicked: %v", r)
			payload, ok = "", false
		}
	}()

	text, err := e.decoder.Decode(buf)
	if err != nil {
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

func safeNRGBA(img image.Image) (out *image.NRGBA) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
		}
	}()
	return filters.ToNRGBA(img)
}
