// Package cli provides the qrdoc command line interface.
// It is a driving adapter: commands translate flags and arguments into
// calls on the core services injected through SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

// version is overridden at build time with -ldflags.
var version = "dev"

var (
	pageService     driving.PageService
	scanService     driving.ScanService
	groupingService driving.GroupingService
	exportService   driving.ExportService
	settingsService driving.SettingsService
	inboxWatcher    driven.InboxWatcher
)

var rootCmd = &cobra.Command{
	Use:   "qrdoc",
	Short: "Group scanned pages into documents by QR code",
	Long: `qrdoc reads scanned images and PDFs, decodes the QR code printed on
each page and bundles pages that share a payload into one PDF per group.

Pages without a readable code are reported as unresolved; give them a
payload with --prompt or in the interactive UI before exporting.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if v, err := cmd.Flags().GetBool("verbose"); err == nil && v {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every decode attempt to stderr")
}

// Services holds the core services the commands drive.
type Services struct {
	Pages    driving.PageService
	Scan     driving.ScanService
	Grouping driving.GroupingService
	Export   driving.ExportService
	Settings driving.SettingsService
	Watcher  driven.InboxWatcher
}

// SetServices injects the core services.
func SetServices(s Services) {
	pageService = s.Pages
	scanService = s.Scan
	groupingService = s.Grouping
	exportService = s.Export
	settingsService = s.Settings
	inboxWatcher = s.Watcher
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
