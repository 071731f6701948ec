// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/styles"
)

// maxPayloadLen bounds what can be typed; QR payloads are short.
const maxPayloadLen = 512

// PayloadInput wraps a bubbles textinput for entering a page payload
// and lists existing payloads similar to the typed value.
type PayloadInput struct {
	textinput   textinput.Model
	styles      *styles.Styles
	label       string
	suggestions []string
	width       int
}

// NewPayloadInput creates a new payload input component.
func NewPayloadInput(s *styles.Styles) *PayloadInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "e.g. DOC-0042"
	ti.Focus()
	ti.CharLimit = maxPayloadLen
	ti.Width = 50

	return &PayloadInput{
		textinput: ti,
		styles:    s,
		label:     "Payload",
		width:     50,
	}
}

// Init initialises the input.
func (p *PayloadInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *PayloadInput) Update(msg tea.Msg) (*PayloadInput, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the label, the field and any suggestions.
func (p *PayloadInput) View() string {
	label := p.styles.Title.Render(p.label + ": ")
	field := p.styles.InputField.Render(p.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	out := lipgloss.JoinHorizontal(lipgloss.Center, label, field)

	if len(p.suggestions) > 0 {
		out += "\n" + p.styles.Muted.Render("similar: "+strings.Join(p.suggestions, ", "))
	}
	return out
}

// Value returns the typed payload with surrounding whitespace removed.
func (p *PayloadInput) Value() string {
	return strings.TrimSpace(p.textinput.Value())
}

// SetValue sets the input value.
func (p *PayloadInput) SetValue(value string) {
	p.textinput.SetValue(value)
	p.textinput.CursorEnd()
}

// SetLabel changes the text shown before the field.
func (p *PayloadInput) SetLabel(label string) {
	p.label = label
}

// Label returns the text shown before the field.
func (p *PayloadInput) Label() string {
	return p.label
}

// SetSuggestions sets the similar payloads shown under the field.
func (p *PayloadInput) SetSuggestions(suggestions []string) {
	p.suggestions = suggestions
}

// Suggestions returns the similar payloads shown under the field.
func (p *PayloadInput) Suggestions() []string {
	return p.suggestions
}

// Focus sets focus on the input.
func (p *PayloadInput) Focus() tea.Cmd {
	return p.textinput.Focus()
}

// Blur removes focus from the input.
func (p *PayloadInput) Blur() {
	p.textinput.Blur()
}

// Focused returns whether the input is focused.
func (p *PayloadInput) Focused() bool {
	return p.textinput.Focused()
}

// SetWidth sets the width of the input.
func (p *PayloadInput) SetWidth(width int) {
	p.width = width
	inputWidth := width - 14
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.textinput.Width = inputWidth
}

// Width returns the current width.
func (p *PayloadInput) Width() int {
	return p.width
}

// Reset clears the value and the suggestions.
func (p *PayloadInput) Reset() {
	p.textinput.Reset()
	p.suggestions = nil
}
