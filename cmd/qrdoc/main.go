// Command qrdoc groups scanned pages into documents by their QR code.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driven/assembler/pdfcpu"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driven/qr/zxing"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driven/raster"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/qrdoc-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qrdoc-cli/internal/core/services"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
	"github.com/custodia-labs/qrdoc-cli/internal/normalisers"
	"github.com/custodia-labs/qrdoc-cli/internal/normalisers/image"
	"github.com/custodia-labs/qrdoc-cli/internal/normalisers/pdf"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	var configStore driven.ConfigStore
	fileStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("config unavailable, using defaults: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileStore
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// Pages live for the lifetime of the process.
	pageStore := memory.NewPageStore()
	imageStore := memory.NewImageStore()

	registry := normalisers.NewRegistry(image.New(), pdf.New())
	pageService := services.NewPageService(pageStore, imageStore, filesystem.NewReader(), registry)

	engine := services.NewDecodeEngine(zxing.New(settings.Decode.TryHarder), settings.Decode)
	scanService := services.NewScanService(pageStore, raster.New(imageStore, settings.Import.MinPageWidth), engine)

	groupingService := services.NewGroupingService(pageStore)
	exportService := services.NewExportService(groupingService, imageStore, pdfcpu.New(""), settings.Export.Workers)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Pages:    pageService,
		Scan:     scanService,
		Grouping: groupingService,
		Export:   exportService,
		Settings: settingsService,
		Watcher:  filesystem.NewWatcher(0),
	})

	return cli.Execute()
}
