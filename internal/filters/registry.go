package filters

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// BuilderFunc creates a Filter from decode settings.
type BuilderFunc func(cfg domain.DecodeSettings) Filter

// Registry maps filter names to their builders.
// It allows the decode chain to be assembled from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty filter registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// DefaultRegistry returns a registry with every built-in filter.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NameIdentity, func(domain.DecodeSettings) Filter { return Identity{} })
	r.Register(NameTopCrop, func(cfg domain.DecodeSettings) Filter {
		return TopCrop{Fraction: cfg.TopCropFraction}
	})
	r.Register(NameContrastGrayscale, func(cfg domain.DecodeSettings) Filter {
		return ContrastGrayscale{ContrastPercent: cfg.ContrastPercent, BrightnessPercent: cfg.BrightnessPercent}
	})
	r.Register(NameBinarize, func(cfg domain.DecodeSettings) Filter {
		return Binarize{Threshold: cfg.BinarizeThreshold}
	})
	r.Register(NameInvert, func(domain.DecodeSettings) Filter { return Invert{} })
	return r
}

// Register adds a filter builder to the registry.
// Name should be unique and match the filter's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a filter by name with the given settings.
func (r *Registry) Build(name string, cfg domain.DecodeSettings) (Filter, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown filter: %s", name)
	}
	return builder(cfg), nil
}

// Has returns true if a filter with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered filter names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
