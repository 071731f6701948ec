package tui

import "errors"

// ErrMissingPageService is returned when the page service is not provided.
var ErrMissingPageService = errors.New("tui: page service is required")

// ErrMissingScanService is returned when the scan service is not provided.
var ErrMissingScanService = errors.New("tui: scan service is required")

// ErrMissingGroupingService is returned when the grouping service is not provided.
var ErrMissingGroupingService = errors.New("tui: grouping service is required")

// ErrMissingExportService is returned when the export service is not provided.
var ErrMissingExportService = errors.New("tui: export service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
