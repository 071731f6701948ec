package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or malformed values fall back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Decode: domain.DecodeSettings{
			TopCropFraction:   s.getFloat(domain.KeyTopCropFraction, defaults.Decode.TopCropFraction),
			BinarizeThreshold: s.getInt(domain.KeyBinarizeThreshold, defaults.Decode.BinarizeThreshold),
			ContrastPercent:   s.getFloat(domain.KeyContrastPercent, defaults.Decode.ContrastPercent),
			BrightnessPercent: s.getFloat(domain.KeyBrightnessPercent, defaults.Decode.BrightnessPercent),
			TryHarder:         s.getBool(domain.KeyTryHarder, defaults.Decode.TryHarder),
		},
		Import: domain.ImportSettings{
			MinPageWidth: s.getInt(domain.KeyMinPageWidth, defaults.Import.MinPageWidth),
		},
		Export: domain.ExportSettings{
			Workers:   s.getInt(domain.KeyExportWorkers, defaults.Export.Workers),
			OutputDir: s.getString(domain.KeyOutputDir, defaults.Export.OutputDir),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Set parses value for key, validates the resulting settings and stores it.
func (s *SettingsService) Set(key, value string) error {
	current, err := s.Get()
	if err != nil {
		defaults := domain.DefaultAppSettings()
		current = &defaults
	}

	value = strings.TrimSpace(value)
	var parsed any
	switch key {
	case domain.KeyTopCropFraction, domain.KeyContrastPercent, domain.KeyBrightnessPercent:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number", domain.ErrInvalidInput, key)
		}
		switch key {
		case domain.KeyTopCropFraction:
			current.Decode.TopCropFraction = f
		case domain.KeyContrastPercent:
			current.Decode.ContrastPercent = f
		default:
			current.Decode.BrightnessPercent = f
		}
		parsed = f
	case domain.KeyBinarizeThreshold, domain.KeyMinPageWidth, domain.KeyExportWorkers:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer", domain.ErrInvalidInput, key)
		}
		switch key {
		case domain.KeyBinarizeThreshold:
			current.Decode.BinarizeThreshold = n
		case domain.KeyMinPageWidth:
			current.Import.MinPageWidth = n
		default:
			current.Export.Workers = n
		}
		parsed = n
	case domain.KeyTryHarder:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		current.Decode.TryHarder = b
		parsed = b
	case domain.KeyOutputDir:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		current.Export.OutputDir = value
		parsed = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := current.Validate(); err != nil {
		return err
	}
	return s.configStore.Set(key, parsed)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	v, ok := s.configStore.Get(key)
	if !ok {
		return def
	}
	switch v.(type) {
	case int, int64, float64:
		return s.configStore.GetInt(key)
	default:
		return def
	}
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	v, ok := s.configStore.Get(key)
	if !ok {
		return def
	}
	switch v.(type) {
	case int, int64, float64:
		return s.configStore.GetFloat(key)
	default:
		return def
	}
}

func (s *SettingsService) getBool(key string, def bool) bool {
	v, ok := s.configStore.Get(key)
	if !ok {
		return def
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	return def
}
