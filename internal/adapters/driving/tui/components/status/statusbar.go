// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateScanning  State = "scanning"
	StateExporting State = "exporting"
	StateError     State = "error"
	StateHelp      State = "help"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	bindings []key.Binding
	state    State
	message  string
	stats    domain.Stats
	progress driving.ScanProgress
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateScanning:
		return s.styles.Warning.Render(fmt.Sprintf("Scanning %d/%d (%d%%)",
			s.progress.Processed, s.progress.Total, s.progress.Percent()))
	case StateExporting:
		return s.styles.Muted.Render("Exporting...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateReady:
	}

	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	if s.stats.Total == 0 {
		return s.styles.Muted.Render("No pages")
	}
	return s.styles.Normal.Render(fmt.Sprintf("%d pages | %d groups | %d unresolved | %d pending",
		s.stats.Total, s.stats.Groups, s.stats.Unresolved, s.stats.Pending))
}

func (s *Bar) renderRight() string {
	bindings := s.bindings
	if bindings == nil {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message shown in place of the page counts.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetStats sets the page counts.
func (s *Bar) SetStats(stats domain.Stats) {
	s.stats = stats
}

// Stats returns the page counts.
func (s *Bar) Stats() domain.Stats {
	return s.stats
}

// SetProgress records scan progress and switches to the scanning state.
func (s *Bar) SetProgress(p driving.ScanProgress) {
	s.progress = p
	s.state = StateScanning
}

// Progress returns the last recorded scan progress.
func (s *Bar) Progress() driving.ScanProgress {
	return s.progress
}

// SetBindings overrides the keybinding hints. Nil restores the defaults.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state, keeping the stats.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.progress = driving.ScanProgress{}
}
