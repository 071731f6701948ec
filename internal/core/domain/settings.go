package domain

import (
	"fmt"
	"math"
)

// Setting keys as they appear in config.toml.
const (
	KeyTopCropFraction   = "decode.top_crop_fraction"
	KeyBinarizeThreshold = "decode.binarize_threshold"
	KeyContrastPercent   = "decode.contrast_percent"
	KeyBrightnessPercent = "decode.brightness_percent"
	KeyTryHarder         = "decode.try_harder"
	KeyMinPageWidth      = "import.min_page_width"
	KeyExportWorkers     = "export.workers"
	KeyOutputDir         = "export.output_dir"
)

// DecodeSettings tunes the decode chain.
type DecodeSettings struct {
	// TopCropFraction is the share of page height kept by the top crop stage.
	TopCropFraction float64

	// BinarizeThreshold is the channel mean above which a pixel turns white.
	BinarizeThreshold int

	// ContrastPercent scales contrast in the contrast stage (100 = unchanged).
	ContrastPercent float64

	// BrightnessPercent scales brightness in the contrast stage (100 = unchanged).
	BrightnessPercent float64

	// TryHarder asks the raw decoder to spend more time per attempt.
	TryHarder bool
}

// Validate checks that every value is in range.
func (s DecodeSettings) Validate() error {
	if math.IsNaN(s.TopCropFraction) || s.TopCropFraction <= 0 || s.TopCropFraction > 1 {
		return fmt.Errorf("%w: top crop fraction must be in (0, 1], got %v", ErrInvalidInput, s.TopCropFraction)
	}
	if s.BinarizeThreshold < 0 || s.BinarizeThreshold > 255 {
		return fmt.Errorf("%w: binarize threshold must be in [0, 255], got %d", ErrInvalidInput, s.BinarizeThreshold)
	}
	if s.ContrastPercent < 0 {
		return fmt.Errorf("%w: contrast percent must not be negative", ErrInvalidInput)
	}
	if s.BrightnessPercent < 0 {
		return fmt.Errorf("%w: brightness percent must not be negative", ErrInvalidInput)
	}
	return nil
}

// ImportSettings controls how page images are prepared.
type ImportSettings struct {
	// MinPageWidth is the width below which rasters are upscaled before decoding.
	// Zero disables upscaling.
	MinPageWidth int
}

// ExportSettings controls PDF assembly.
type ExportSettings struct {
	// Workers is the number of groups assembled concurrently.
	Workers int

	// OutputDir is the default export directory.
	OutputDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Decode DecodeSettings
	Import ImportSettings
	Export ExportSettings
}

// Validate checks every section.
func (s AppSettings) Validate() error {
	if err := s.Decode.Validate(); err != nil {
		return err
	}
	if s.Import.MinPageWidth < 0 {
		return fmt.Errorf("%w: min page width must not be negative", ErrInvalidInput)
	}
	if s.Export.Workers < 1 {
		return fmt.Errorf("%w: export workers must be at least 1", ErrInvalidInput)
	}
	return nil
}

// DefaultDecodeSettings returns the tuned chain constants.
func DefaultDecodeSettings() DecodeSettings {
	return DecodeSettings{
		TopCropFraction:   0.5,
		BinarizeThreshold: 140,
		ContrastPercent:   250,
		BrightnessPercent: 110,
		TryHarder:         true,
	}
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Decode: DefaultDecodeSettings(),
		Import: ImportSettings{
			MinPageWidth: 1200,
		},
		Export: ExportSettings{
			Workers:   4,
			OutputDir: ".",
		},
	}
}

// SettingKeys returns every configurable key in display order.
func SettingKeys() []string {
	return []string{
		KeyTopCropFraction,
		KeyBinarizeThreshold,
		KeyContrastPercent,
		KeyBrightnessPercent,
		KeyTryHarder,
		KeyMinPageWidth,
		KeyExportWorkers,
		KeyOutputDir,
	}
}
