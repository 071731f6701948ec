package cli

import (
	"bytes"
	"context"
	"image"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

// execute runs the root command with args and returns stdout and stderr.
// Flags and injected services are restored afterwards.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
		logger.SetVerbose(false)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// withServices injects s for the duration of the test.
func withServices(t *testing.T, s Services) {
	t.Helper()
	old := Services{
		Pages:    pageService,
		Scan:     scanService,
		Grouping: groupingService,
		Export:   exportService,
		Settings: settingsService,
		Watcher:  inboxWatcher,
	}
	SetServices(s)
	t.Cleanup(func() { SetServices(old) })
}

func withTerminal(t *testing.T, tty bool) {
	t.Helper()
	old := stdinIsTerminal
	stdinIsTerminal = func() bool { return tty }
	t.Cleanup(func() { stdinIsTerminal = old })
}

// mockPageService implements driving.PageService for testing.
type mockPageService struct {
	pages    []domain.PageItem
	skipped  []driving.SkippedFile
	imported [][]string
	assigned map[string]string
}

func (m *mockPageService) Import(_ context.Context, paths []string) (*driving.ImportReport, error) {
	m.imported = append(m.imported, paths)
	return &driving.ImportReport{Pages: m.pages, Skipped: m.skipped}, nil
}

func (m *mockPageService) List(context.Context) ([]domain.PageItem, error) {
	return m.pages, nil
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

func (m *mockPageService) AssignPayload(_ context.Context, id, payload string) (*domain.PageItem, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, domain.ErrInvalidPayload
	}
	if m.assigned == nil {
		m.assigned = map[string]string{}
	}
	m.assigned[id] = payload
	return &domain.PageItem{ID: id, Payload: payload, State: domain.PageStateDecoded, Manual: true}, nil
}

func (m *mockPageService) RenameGroup(context.Context, string, string) (int, error) {
	return 0, nil
}

func (m *mockPageService) Clear(context.Context) error {
	m.pages = nil
	return nil
}

func (m *mockPageService) Stats(context.Context) (*domain.Stats, error) {
	return &domain.Stats{Total: len(m.pages)}, nil
}

// mockScanService implements driving.ScanService for testing.
type mockScanService struct {
	summary driving.ScanSummary
	calls   int
}

func (m *mockScanService) ScanAll(_ context.Context, onProgress func(driving.ScanProgress)) (*driving.ScanSummary, error) {
	m.calls++
	if onProgress != nil {
		onProgress(driving.ScanProgress{Running: true, Processed: m.summary.Total, Total: m.summary.Total})
	}
	s := m.summary
	return &s, nil
}

func (m *mockScanService) Rescan(_ context.Context, id string) (*domain.PageItem, error) {
	return &domain.PageItem{ID: id}, nil
}

func (m *mockScanService) DecodeImage(context.Context, image.Image) domain.DecodeResult {
	return domain.DecodeResult{}
}

func (m *mockScanService) Status() driving.ScanProgress {
	return driving.ScanProgress{}
}

// mockGroupingService implements driving.GroupingService for testing.
type mockGroupingService struct {
	grouping    domain.Grouping
	suggestions map[string][]string
}

func (m *mockGroupingService) Groups(context.Context) (*domain.Grouping, error) {
	g := m.grouping
	return &g, nil
}

func (m *mockGroupingService) Suggest(_ context.Context, payload string) ([]string, error) {
	return m.suggestions[payload], nil
}

// mockExportService implements driving.ExportService for testing.
type mockExportService struct {
	dir  string
	docs []domain.ExportedDocument
	err  error
}

func (m *mockExportService) ExportAll(_ context.Context, dir string) ([]domain.ExportedDocument, error) {
	m.dir = dir
	return m.docs, m.err
}

func (m *mockExportService) ExportGroup(_ context.Context, payload, dir string) (*domain.ExportedDocument, error) {
	m.dir = dir
	return &domain.ExportedDocument{Payload: payload}, m.err
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.AppSettings
	set      map[string]string
	err      error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.set == nil {
		m.set = map[string]string{}
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
