package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

// stdinIsTerminal reports whether prompts can be answered. Tests replace it.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var sortCmd = &cobra.Command{
	Use:   "sort <paths...>",
	Short: "Group scanned pages by QR code and export one PDF per group",
	Long: `Imports the given image files, PDFs and directories, decodes the QR
code on every page and writes one PDF per payload.

Directories are read without recursion; hidden files are skipped. Files
are processed in name order with numbers compared by value, so scan2
comes before scan10.

With --prompt, each unresolved page asks for a payload on the terminal.
A blank answer leaves the page unresolved.`,
	Example: `  qrdoc sort ~/scans -o ~/documents
  qrdoc sort batch1.pdf batch2.pdf --dry-run
  qrdoc sort inbox/ --prompt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSort,
}

func init() {
	sortCmd.Flags().StringP("output", "o", "", "directory for the exported PDFs (default from settings)")
	sortCmd.Flags().Bool("dry-run", false, "print the grouping without writing files")
	sortCmd.Flags().Bool("prompt", false, "ask for a payload for every unresolved page")
	rootCmd.AddCommand(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	if err := requireSessionServices(); err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	prompt, _ := cmd.Flags().GetBool("prompt")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Section("Import")
	n, err := importPaths(ctx, cmd, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("no pages imported")
	}

	logger.Section("Scan")
	summary, err := scanWithProgress(ctx, cmd)
	if err != nil {
		return err
	}
	cmd.Printf("Scanned %s: %d decoded, %d unresolved\n",
		pluralPages(summary.Total), summary.Decoded, summary.Unresolved)

	if prompt && summary.Unresolved > 0 {
		if stdinIsTerminal() {
			if err := promptUnresolved(ctx, cmd); err != nil {
				return err
			}
		} else {
			logger.Warn("--prompt ignored: stdin is not a terminal")
		}
	}

	grouping, err := groupingService.Groups(ctx)
	if err != nil {
		return fmt.Errorf("grouping failed: %w", err)
	}
	printGrouping(cmd.OutOrStdout(), grouping)

	if dryRun {
		cmd.Println("Dry run: nothing written.")
		return nil
	}

	logger.Section("Export")
	return exportAll(ctx, cmd, resolveOutputDir(output))
}

// promptUnresolved asks for a payload for each unresolved page. When the
// answer is close to an existing group the user may correct it first.
func promptUnresolved(ctx context.Context, cmd *cobra.Command) error {
	grouping, err := groupingService.Groups(ctx)
	if err != nil {
		return fmt.Errorf("grouping failed: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	for _, page := range grouping.Unresolved {
		cmd.Printf("Payload for %s (blank to skip): ", page.Label())
		payload := readLine(reader)
		if payload == "" {
			continue
		}

		if similar, err := groupingService.Suggest(ctx, payload); err == nil && len(similar) > 0 {
			cmd.Printf("  similar: %s\n", strings.Join(similar, ", "))
			cmd.Printf("  Press enter to keep %q or type a replacement: ", payload)
			if replacement := readLine(reader); replacement != "" {
				payload = replacement
			}
		}

		if _, err := pageService.AssignPayload(ctx, page.ID, payload); err != nil {
			if errors.Is(err, domain.ErrInvalidPayload) {
				continue
			}
			return fmt.Errorf("assign %s: %w", page.Label(), err)
		}
	}
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
