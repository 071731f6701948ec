package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"

	// Formats accepted by decode_image.
	_ "image/jpeg"
	_ "image/png"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// PageOutput is one page as reported to clients.
type PageOutput struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	State   string `json:"state"`
	Payload string `json:"payload,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Manual  bool   `json:"manual,omitempty"`
}

func toPageOutput(p *domain.PageItem) PageOutput {
	out := PageOutput{
		ID:      p.ID,
		Label:   p.Label(),
		State:   p.State.String(),
		Payload: p.Payload,
		Manual:  p.Manual,
	}
	if p.Stage != domain.StageNone {
		out.Stage = p.Stage.String()
	}
	return out
}

func toPageOutputs(pages []domain.PageItem) []PageOutput {
	out := make([]PageOutput, len(pages))
	for i := range pages {
		out[i] = toPageOutput(&pages[i])
	}
	return out
}

// EmptyInput is the input schema for tools without arguments.
type EmptyInput struct{}

// ImportInput is the input schema for the import_scans tool.
type ImportInput struct {
	Paths []string `json:"paths" jsonschema:"image or PDF files, or directories of them"`
}

// ImportOutput is the output schema for the import_scans tool.
type ImportOutput struct {
	Imported int               `json:"imported"`
	Pages    []PageOutput      `json:"pages"`
	Skipped  map[string]string `json:"skipped,omitempty"`
}

// PagesOutput is the output schema for the list_pages tool.
type PagesOutput struct {
	Pages []PageOutput `json:"pages"`
	Count int          `json:"count"`
}

// GroupOutput is one group of pages.
type GroupOutput struct {
	Payload string   `json:"payload"`
	PageIDs []string `json:"page_ids"`
	Pages   int      `json:"pages"`
}

// GroupsOutput is the output schema for the list_groups tool.
type GroupsOutput struct {
	Groups     []GroupOutput `json:"groups"`
	Unresolved []PageOutput  `json:"unresolved"`
	Pending    []PageOutput  `json:"pending"`
}

// ScanOutput is the output schema for the scan_pages tool.
type ScanOutput struct {
	Total      int `json:"total"`
	Decoded    int `json:"decoded"`
	Unresolved int `json:"unresolved"`
	Skipped    int `json:"skipped"`
}

// PageInput identifies a page.
type PageInput struct {
	ID string `json:"id" jsonschema:"the page id from list_pages"`
}

// AssignInput is the input schema for the assign_payload tool.
type AssignInput struct {
	ID      string `json:"id" jsonschema:"the page id from list_pages"`
	Payload string `json:"payload" jsonschema:"the document identifier to assign; blank input is ignored"`
}

// RenameInput is the input schema for the rename_group tool.
type RenameInput struct {
	From string `json:"from" jsonschema:"the current group payload"`
	To   string `json:"to" jsonschema:"the new group payload"`
}

// RenameOutput is the output schema for the rename_group tool.
type RenameOutput struct {
	Renamed int `json:"renamed"`
}

// ExportInput is the input schema for the export_groups tool.
type ExportInput struct {
	Dir     string `json:"dir,omitempty" jsonschema:"output directory (default from settings)"`
	Payload string `json:"payload,omitempty" jsonschema:"export only this group"`
}

// ExportOutput is the output schema for the export_groups tool.
type ExportOutput struct {
	Documents []ExportedOutput `json:"documents"`
}

// ExportedOutput is one written document.
type ExportedOutput struct {
	Payload string `json:"payload"`
	Path    string `json:"path"`
	Pages   int    `json:"pages"`
}

// ClearOutput is the output schema for the clear_pages tool.
type ClearOutput struct {
	Cleared int `json:"cleared"`
}

// DecodeInput is the input schema for the decode_image tool.
type DecodeInput struct {
	Data string `json:"data" jsonschema:"base64 encoded PNG or JPEG image"`
}

// DecodeOutput is the output schema for the decode_image tool.
type DecodeOutput struct {
	Found    bool   `json:"found"`
	Payload  string `json:"payload,omitempty"`
	Stage    string `json:"stage,omitempty"`
	Attempts int    `json:"attempts"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "import_scans",
		Description: "Import scanned images or PDFs as pending pages",
	}, s.handleImport)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_pages",
		Description: "List every page in import order with its decode state",
	}, s.handleListPages)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_groups",
		Description: "List documents grouped by QR payload, plus unresolved and pending pages",
	}, s.handleListGroups)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scan_pages",
		Description: "Run the QR decode chain over all pages not yet decoded",
	}, s.handleScan)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rescan_page",
		Description: "Run the QR decode chain again for one pending or unresolved page",
	}, s.handleRescan)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "assign_payload",
		Description: "Manually set the document identifier of a page",
	}, s.handleAssign)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rename_group",
		Description: "Move every page of one group to another payload",
	}, s.handleRename)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_groups",
		Description: "Write one PDF per group",
	}, s.handleExport)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_pages",
		Description: "Remove every page from the session",
	}, s.handleClear)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "decode_image",
		Description: "Decode a QR code from an image without adding it to the session",
	}, s.handleDecode)
}

func (s *Server) handleImport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImportInput,
) (*mcp.CallToolResult, ImportOutput, error) {
	if len(input.Paths) == 0 {
		return nil, ImportOutput{}, errors.New("paths is required")
	}

	report, err := s.ports.Pages.Import(ctx, input.Paths)
	if err != nil {
		return nil, ImportOutput{}, err
	}

	out := ImportOutput{
		Imported: len(report.Pages),
		Pages:    toPageOutputs(report.Pages),
	}
	if len(report.Skipped) > 0 {
		out.Skipped = make(map[string]string, len(report.Skipped))
		for _, sk := range report.Skipped {
			out.Skipped[sk.Path] = sk.Reason
		}
	}
	return nil, out, nil
}

func (s *Server) handleListPages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, PagesOutput, error) {
	pages, err := s.ports.Pages.List(ctx)
	if err != nil {
		return nil, PagesOutput{}, err
	}
	return nil, PagesOutput{Pages: toPageOutputs(pages), Count: len(pages)}, nil
}

func (s *Server) handleListGroups(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, GroupsOutput, error) {
	grouping, err := s.ports.Grouping.Groups(ctx)
	if err != nil {
		return nil, GroupsOutput{}, err
	}

	out := GroupsOutput{
		Groups:     make([]GroupOutput, len(grouping.Groups)),
		Unresolved: toPageOutputs(grouping.Unresolved),
		Pending:    toPageOutputs(grouping.Pending),
	}
	for i, g := range grouping.Groups {
		ids := make([]string, len(g.Pages))
		for j := range g.Pages {
			ids[j] = g.Pages[j].ID
		}
		out.Groups[i] = GroupOutput{Payload: g.Payload, PageIDs: ids, Pages: len(ids)}
	}
	return nil, out, nil
}

func (s *Server) handleScan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ScanOutput, error) {
	summary, err := s.ports.Scan.ScanAll(ctx, nil)
	if err != nil {
		return nil, ScanOutput{}, err
	}
	return nil, ScanOutput{
		Total:      summary.Total,
		Decoded:    summary.Decoded,
		Unresolved: summary.Unresolved,
		Skipped:    summary.Skipped,
	}, nil
}

func (s *Server) handleRescan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PageInput,
) (*mcp.CallToolResult, PageOutput, error) {
	page, err := s.ports.Scan.Rescan(ctx, input.ID)
	if err != nil {
		return nil, PageOutput{}, err
	}
	return nil, toPageOutput(page), nil
}

// handleAssign applies a manual payload. Blank payloads leave the page
// unchanged and are not reported as errors.
func (s *Server) handleAssign(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AssignInput,
) (*mcp.CallToolResult, PageOutput, error) {
	page, err := s.ports.Pages.AssignPayload(ctx, input.ID, input.Payload)
	if errors.Is(err, domain.ErrInvalidPayload) {
		page, err = s.ports.Pages.Get(ctx, input.ID)
	}
	if err != nil {
		return nil, PageOutput{}, err
	}
	return nil, toPageOutput(page), nil
}

func (s *Server) handleRename(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenameInput,
) (*mcp.CallToolResult, RenameOutput, error) {
	n, err := s.ports.Pages.RenameGroup(ctx, input.From, input.To)
	if err != nil {
		return nil, RenameOutput{}, err
	}
	return nil, RenameOutput{Renamed: n}, nil
}

func (s *Server) handleExport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExportInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	if s.ports.Export == nil {
		return nil, ExportOutput{}, ErrExportUnavailable
	}

	dir := input.Dir
	if dir == "" {
		dir = s.ports.OutputDir
	}
	if dir == "" {
		dir = "."
	}

	var docs []domain.ExportedDocument
	if input.Payload != "" {
		doc, err := s.ports.Export.ExportGroup(ctx, input.Payload, dir)
		if err != nil {
			return nil, ExportOutput{}, err
		}
		docs = []domain.ExportedDocument{*doc}
	} else {
		var err error
		docs, err = s.ports.Export.ExportAll(ctx, dir)
		if err != nil {
			return nil, ExportOutput{}, err
		}
	}

	out := ExportOutput{Documents: make([]ExportedOutput, len(docs))}
	for i, d := range docs {
		out.Documents[i] = ExportedOutput{Payload: d.Payload, Path: d.Path, Pages: d.Pages}
	}
	return nil, out, nil
}

func (s *Server) handleClear(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ClearOutput, error) {
	stats, err := s.ports.Pages.Stats(ctx)
	if err != nil {
		return nil, ClearOutput{}, err
	}
	if err := s.ports.Pages.Clear(ctx); err != nil {
		return nil, ClearOutput{}, err
	}
	return nil, ClearOutput{Cleared: stats.Total}, nil
}

func (s *Server) handleDecode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DecodeInput,
) (*mcp.CallToolResult, DecodeOutput, error) {
	data, err := base64.StdEncoding.DecodeString(input.Data)
	if err != nil {
		return nil, DecodeOutput{}, fmt.Errorf("data is not valid base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, DecodeOutput{}, fmt.Errorf("%w: %v", domain.ErrImageUnreadable, err)
	}

	result := s.ports.Scan.DecodeImage(ctx, img)
	out := DecodeOutput{Found: result.Found, Payload: result.Payload, Attempts: result.Attempts}
	if result.Found {
		out.Stage = result.Stage.String()
	}
	return nil, out, nil
}
