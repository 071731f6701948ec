package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <paths...>",
	Short: "Print the QR payload of every page",
	Long: `Imports the given files and prints, for every page, the decoded payload
and the preprocessing stage that produced it. Nothing is written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	if err := requireSessionServices(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	n, err := importPaths(ctx, cmd, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("no pages imported")
	}
	if _, err := scanWithProgress(ctx, cmd); err != nil {
		return err
	}

	pages, err := pageService.List(ctx)
	if err != nil {
		return fmt.Errorf("listing pages: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for i := range pages {
		p := &pages[i]
		if p.State == domain.PageStateDecoded {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Label(), p.Payload, p.Stage)
		} else {
			fmt.Fprintf(tw, "%s\t-\t%s\n", p.Label(), p.State)
		}
	}
	return tw.Flush()
}
