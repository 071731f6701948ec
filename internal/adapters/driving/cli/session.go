package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

func requireSessionServices() error {
	switch {
	case pageService == nil:
		return errors.New("page service not configured")
	case scanService == nil:
		return errors.New("scan service not configured")
	case groupingService == nil:
		return errors.New("grouping service not configured")
	}
	return nil
}

// importPaths imports paths and reports skipped files on stderr.
// It returns the number of pages created.
func importPaths(ctx context.Context, cmd *cobra.Command, paths []string) (int, error) {
	report, err := pageService.Import(ctx, paths)
	if err != nil {
		return 0, fmt.Errorf("import failed: %w", err)
	}
	for _, s := range report.Skipped {
		cmd.PrintErrf("skipped %s: %s\n", s.Path, s.Reason)
	}
	logger.Info("imported %d pages, skipped %d files", len(report.Pages), len(report.Skipped))
	return len(report.Pages), nil
}

// scanWithProgress scans every pending page, drawing progress on stderr.
func scanWithProgress(ctx context.Context, cmd *cobra.Command) (*driving.ScanSummary, error) {
	progress := newProgressPrinter(cmd.ErrOrStderr())
	summary, err := scanService.ScanAll(ctx, progress.Update)
	progress.Done()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return summary, nil
}

// resolveOutputDir picks the flag value, then the configured directory.
func resolveOutputDir(flag string) string {
	if flag != "" {
		return flag
	}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s.Export.OutputDir != "" {
			return s.Export.OutputDir
		}
	}
	return "."
}

// exportAll writes every group into dir and lists the written files.
func exportAll(ctx context.Context, cmd *cobra.Command, dir string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}
	docs, err := exportService.ExportAll(ctx, dir)
	if errors.Is(err, domain.ErrNothingToExport) {
		cmd.Println("No groups to export.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	for _, d := range docs {
		cmd.Printf("Wrote %s (%s)\n", d.Path, pluralPages(d.Pages))
	}
	return nil
}

// printGrouping lists groups in collation order, then the pages
// without a payload.
func printGrouping(w io.Writer, g *domain.Grouping) {
	fmt.Fprintf(w, "Groups (%d)\n", len(g.Groups))
	for _, grp := range g.Groups {
		fmt.Fprintf(w, "  %s  %s\n", grp.Payload, pluralPages(len(grp.Pages)))
		fmt.Fprintf(w, "    %s\n", labels(grp.Pages))
	}
	if len(g.Unresolved) > 0 {
		fmt.Fprintf(w, "Unresolved (%d)\n", len(g.Unresolved))
		fmt.Fprintf(w, "    %s\n", labels(g.Unresolved))
	}
	if len(g.Pending) > 0 {
		fmt.Fprintf(w, "Pending (%d)\n", len(g.Pending))
		fmt.Fprintf(w, "    %s\n", labels(g.Pending))
	}
}

func labels(pages []domain.PageItem) string {
	out := make([]string, len(pages))
	for i := range pages {
		out[i] = pages[i].Label()
	}
	return strings.Join(out, ", ")
}

func pluralPages(n int) string {
	if n == 1 {
		return "1 page"
	}
	return fmt.Sprintf("%d pages", n)
}
