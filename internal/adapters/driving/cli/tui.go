package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui"
)

// runProgram starts a bubbletea program. Tests replace it.
var runProgram = func(ctx context.Context, m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [paths...]",
	Short: "Review and correct the grouping interactively",
	Long: `Launch the interactive terminal user interface for qrdoc.

Any paths given are imported first. The home view lists the groups in
payload order followed by the unresolved and pending pages.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open a group
  Esc      - Back / Cancel
  s        - Scan every pending page
  r        - Rescan the selected page
  a        - Assign a payload to the selected page
  n        - Rename the open group
  e        - Export one PDF per group
  x x      - Clear every page
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringP("output", "o", "", "directory for the exported PDFs (default from settings)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	output, _ := cmd.Flags().GetString("output")

	if len(args) > 0 && pageService != nil {
		if _, err := importPaths(ctx, cmd, args); err != nil {
			return err
		}
	}

	ports := &tui.Ports{
		Pages:     pageService,
		Scan:      scanService,
		Grouping:  groupingService,
		Export:    exportService,
		OutputDir: resolveOutputDir(output),
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if err := runProgram(ctx, app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
