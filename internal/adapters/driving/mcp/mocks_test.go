package mcp

import (
	"context"
	"image"
	"strings"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// mockPageService is a mock implementation of driving.PageService.
type mockPageService struct {
	pages    []domain.PageItem
	report   *driving.ImportReport
	assigned map[string]string
	cleared  bool
	renamed  int
	err      error
}

func (m *mockPageService) Import(_ context.Context, _ []string) (*driving.ImportReport, error) {
	return m.report, m.err
}

func (m *mockPageService) List(_ context.Context) ([]domain.PageItem, error) {
	return m.pages, m.err
}

func (m *mockPageService) Get(_ context.Context, id string) (*domain.PageItem, error) {
	for i := range m.pages {
		if m.pages[i].ID == id {
			p := m.pages[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockPageService) AssignPayload(ctx context.Context, id, payload string) (*domain.PageItem, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, domain.ErrInvalidPayload
	}
	if m.assigned == nil {
		m.assigned = make(map[string]string)
	}
	m.assigned[id] = payload
	p, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Payload = payload
	p.State = domain.PageStateDecoded
	p.Manual = true
	return p, nil
}

func (m *mockPageService) RenameGroup(_ context.Context, _, _ string) (int, error) {
	return m.renamed, m.err
}

func (m *mockPageService) Clear(_ context.Context) error {
	m.cleared = true
	return m.err
}

func (m *mockPageService) Stats(_ context.Context) (*domain.Stats, error) {
	return &domain.Stats{Total: len(m.pages)}, m.err
}

// mockScanService is a mock implementation of driving.ScanService.
type mockScanService struct {
	summary *driving.ScanSummary
	page    *domain.PageItem
	result  domain.DecodeResult
	err     error
}

func (m *mockScanService) ScanAll(_ context.Context, _ func(driving.ScanProgress)) (*driving.ScanSummary, error) {
	return m.summary, m.err
}

func (m *mockScanService) Rescan(_ context.Context, _ string) (*domain.PageItem, error) {
	return m.page, m.err
}

func (m *mockScanService) DecodeImage(_ context.Context, _ image.Image) domain.DecodeResult {
	return m.result
}

func (m *mockScanService) Status() driving.ScanProgress {
	return driving.ScanProgress{}
}

// mockGroupingService is a mock implementation of driving.GroupingService.
type mockGroupingService struct {
	grouping *domain.Grouping
	err      error
}

func (m *mockGroupingService) Groups(_ context.Context) (*domain.Grouping, error) {
	if m.grouping == nil {
		return &domain.Grouping{}, m.err
	}
	return m.grouping, m.err
}

func (m *mockGroupingService) Suggest(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

// mockExportService is a mock implementation of driving.ExportService.
type mockExportService struct {
	dir     string
	payload string
	docs    []domain.ExportedDocument
	err     error
}

func (m *mockExportService) ExportAll(_ context.Context, dir string) ([]domain.ExportedDocument, error) {
	m.dir = dir
	return m.docs, m.err
}

func (m *mockExportService) ExportGroup(_ context.Context, payload, dir string) (*domain.ExportedDocument, error) {
	m.dir, m.payload = dir, payload
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ExportedDocument{Payload: payload, Path: dir + "/" + payload + ".pdf", Pages: 1}, nil
}

func testPorts() *Ports {
	return &Ports{
		Pages:    &mockPageService{},
		Scan:     &mockScanService{},
		Grouping: &mockGroupingService{},
	}
}
