package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Decode scans as they land in a directory",
	Long: `Imports every file already in dir, then keeps watching it. New files are
decoded once their writes settle. Press Ctrl+C to stop; the collected
groups are exported before qrdoc exits.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("output", "o", "", "directory for the exported PDFs (default from settings)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireSessionServices(); err != nil {
		return err
	}
	if inboxWatcher == nil {
		return errors.New("inbox watcher not configured")
	}
	output, _ := cmd.Flags().GetString("output")
	dir := args[0]

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	batches, err := inboxWatcher.Watch(ctx, dir)
	if err != nil {
		return err
	}

	if err := processBatch(ctx, cmd, []string{dir}); err != nil {
		return err
	}
	cmd.Printf("Watching %s (Ctrl+C to export and exit)\n", dir)

	for batch := range batches {
		if err := processBatch(ctx, cmd, batch); err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("%v", err)
		}
	}

	// Export with a context that outlives the interrupt.
	return exportAll(context.WithoutCancel(ctx), cmd, resolveOutputDir(output))
}

// processBatch imports and scans files, then prints the new page outcomes.
func processBatch(ctx context.Context, cmd *cobra.Command, paths []string) error {
	report, err := pageService.Import(ctx, paths)
	if err != nil {
		return err
	}
	for _, s := range report.Skipped {
		cmd.PrintErrf("skipped %s: %s\n", s.Path, s.Reason)
	}
	if len(report.Pages) == 0 {
		return nil
	}
	if _, err := scanService.ScanAll(ctx, nil); err != nil && !errors.Is(err, domain.ErrScanInProgress) {
		return err
	}

	for _, p := range report.Pages {
		page, err := pageService.Get(ctx, p.ID)
		if err != nil {
			continue
		}
		if page.HasPayload() {
			cmd.Printf("%s -> %s\n", page.Label(), page.Payload)
		} else {
			cmd.Printf("%s -> %s\n", page.Label(), page.State)
		}
	}
	return nil
}
