package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the decode, import and export settings stored in
~/.qrdoc/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. The value is validated before it is saved.

Keys:
  decode.top_crop_fraction   share of the page height kept by the top crop stage (0-1]
  decode.binarize_threshold  channel mean above which a pixel turns white [0-255]
  decode.contrast_percent    contrast of the contrast stage, 100 = unchanged
  decode.brightness_percent  brightness of the contrast stage, 100 = unchanged
  decode.try_harder          spend more time on each decode attempt (true/false)
  import.min_page_width      narrower pages are upscaled before decoding, 0 = off
  export.workers             groups assembled at once
  export.output_dir          default directory for exported PDFs`,
	Example: `  qrdoc settings set decode.binarize_threshold 128`,
	Args:    cobra.ExactArgs(2),
	RunE:    runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Decode]")
	cmd.Printf("  Top crop fraction: %s\n", formatFloat(settings.Decode.TopCropFraction))
	cmd.Printf("  Binarize threshold: %d\n", settings.Decode.BinarizeThreshold)
	cmd.Printf("  Contrast: %s%%\n", formatFloat(settings.Decode.ContrastPercent))
	cmd.Printf("  Brightness: %s%%\n", formatFloat(settings.Decode.BrightnessPercent))
	cmd.Printf("  Try harder: %s\n", yesNo(settings.Decode.TryHarder))
	cmd.Println()

	cmd.Println("[Import]")
	if settings.Import.MinPageWidth > 0 {
		cmd.Printf("  Min page width: %dpx\n", settings.Import.MinPageWidth)
	} else {
		cmd.Println("  Min page width: off")
	}
	cmd.Println()

	cmd.Println("[Export]")
	cmd.Printf("  Workers: %d\n", settings.Export.Workers)
	cmd.Printf("  Output directory: %s\n", settings.Export.OutputDir)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
