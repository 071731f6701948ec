// Package mcp provides an MCP (Model Context Protocol) server adapter for qrdoc.
// It lets AI assistants import scans, run the decode chain, fix unresolved
// pages and export the resulting documents.
package mcp

import "errors"

// Errors returned when required services are not provided.
var (
	ErrMissingPageService     = errors.New("mcp: page service is required")
	ErrMissingScanService     = errors.New("mcp: scan service is required")
	ErrMissingGroupingService = errors.New("mcp: grouping service is required")
)

// ErrExportUnavailable is returned by export tools when no export service is wired.
var ErrExportUnavailable = errors.New("mcp: export is not available")
