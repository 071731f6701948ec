// Package tui provides an interactive terminal user interface for qrdoc.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pages manages the imported pages.
	Pages driving.PageService

	// Scan runs the decode chain.
	Scan driving.ScanService

	// Grouping derives groups from the pages.
	Grouping driving.GroupingService

	// Export writes one PDF per group.
	Export driving.ExportService

	// OutputDir is where exports are written. Empty means the working directory.
	OutputDir string
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Pages == nil {
		return ErrMissingPageService
	}
	if p.Scan == nil {
		return ErrMissingScanService
	}
	if p.Grouping == nil {
		return ErrMissingGroupingService
	}
	if p.Export == nil {
		return ErrMissingExportService
	}
	return nil
}
