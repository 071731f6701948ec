package mcp

import (
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pages manages the session's pages.
	Pages driving.PageService

	// Scan runs the decode chain.
	Scan driving.ScanService

	// Grouping derives groups from pages.
	Grouping driving.GroupingService

	// Export writes group documents. Optional.
	Export driving.ExportService

	// OutputDir is the default export directory.
	OutputDir string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pages == nil {
		return ErrMissingPageService
	}
	if p.Scan == nil {
		return ErrMissingScanService
	}
	if p.Grouping == nil {
		return ErrMissingGroupingService
	}
	return nil
}
