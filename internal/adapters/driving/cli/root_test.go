package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "qrdoc", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"sort", "decode", "watch", "tui", "mcp", "settings", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	_, _, err := execute(t, "", "--verbose", "version")

	assert.NoError(t, err)
	// execute resets verbosity on cleanup, so it is still set here.
	assert.True(t, logger.IsVerbose())
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	SetVersion("")
	assert.Equal(t, "1.2.3", version)
}

func TestSetServices(t *testing.T) {
	withServices(t, Services{})
	pages := &mockPageService{}
	settings := newMockSettingsService()

	SetServices(Services{Pages: pages, Settings: settings})

	assert.Same(t, pages, pageService)
	assert.Same(t, settings, settingsService)
	assert.Nil(t, scanService)
}
