// Package assign provides the manual payload form, used both to assign
// a payload to one page and to rename a whole group.
package assign

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// Mode is what submitting the form does.
type Mode int

const (
	// ModeAssign sets the payload of a single page.
	ModeAssign Mode = iota
	// ModeRename moves every page of a group onto a new payload.
	ModeRename
)

// View is the payload entry form.
type View struct {
	styles          *styles.Styles
	pageService     driving.PageService
	groupingService driving.GroupingService
	input           *input.PayloadInput

	ctx    context.Context
	mode   Mode
	page   domain.PageItem
	group  string
	width  int
	height int
	err    error
}

// NewView creates a new assign view.
func NewView(s *styles.Styles, pageService driving.PageService, groupingService driving.GroupingService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		pageService:     pageService,
		groupingService: groupingService,
		input:           input.NewPayloadInput(s),
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context used by submitted commands.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// EditPage prepares the form to assign a payload to page.
func (v *View) EditPage(page domain.PageItem) tea.Cmd {
	v.reset()
	v.mode = ModeAssign
	v.page = page
	v.input.SetLabel("Payload for " + page.Label())
	v.input.SetValue(page.Payload)
	return v.suggest(page.Payload)
}

// EditGroup prepares the form to rename group payload.
func (v *View) EditGroup(payload string) tea.Cmd {
	v.reset()
	v.mode = ModeRename
	v.group = payload
	v.input.SetLabel("Rename " + payload)
	v.input.SetValue(payload)
	return nil
}

func (v *View) reset() {
	v.input.Reset()
	v.input.Focus()
	v.err = nil
	v.page = domain.PageItem{}
	v.group = ""
}

// Update handles messages for the assign view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SuggestionsLoaded:
		if msg.Query == v.input.Value() {
			v.input.SetSuggestions(msg.Suggestions)
		}
		return v, nil

	case messages.PayloadAssigned:
		v.err = msg.Err
		return v, nil

	case messages.GroupRenamed:
		v.err = msg.Err
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only submit and cancel are special
	switch msg.Type {
	case tea.KeyEsc:
		return v, back
	case tea.KeyEnter:
		return v, v.submit()
	}

	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.mode == ModeAssign && v.input.Value() != before {
		return v, tea.Batch(cmd, v.suggest(v.input.Value()))
	}
	return v, cmd
}

func back() tea.Msg {
	return messages.ViewChanged{View: messages.ViewPages}
}

// submit applies the typed payload. Blank input changes nothing.
func (v *View) submit() tea.Cmd {
	value := v.input.Value()
	if value == "" {
		return back
	}

	ctx := v.ctx
	switch v.mode {
	case ModeRename:
		from := v.group
		if value == from {
			return back
		}
		return func() tea.Msg {
			if v.pageService == nil {
				return messages.GroupRenamed{Err: fmt.Errorf("page service not available")}
			}
			n, err := v.pageService.RenameGroup(ctx, from, value)
			return messages.GroupRenamed{From: from, To: value, Count: n, Err: err}
		}
	default:
		id := v.page.ID
		return func() tea.Msg {
			if v.pageService == nil {
				return messages.PayloadAssigned{Err: fmt.Errorf("page service not available")}
			}
			page, err := v.pageService.AssignPayload(ctx, id, value)
			return messages.PayloadAssigned{Page: page, Err: err}
		}
	}
}

// suggest returns a command that looks up payloads similar to value.
func (v *View) suggest(value string) tea.Cmd {
	value = strings.TrimSpace(value)
	if value == "" || v.groupingService == nil {
		v.input.SetSuggestions(nil)
		return nil
	}
	ctx := v.ctx
	return func() tea.Msg {
		suggestions, err := v.groupingService.Suggest(ctx, value)
		if err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.SuggestionsLoaded{Query: value, Suggestions: suggestions}
	}
}

// View renders the assign view.
func (v *View) View() string {
	var b strings.Builder

	title := "Assign payload"
	if v.mode == ModeRename {
		title = "Rename group"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	if v.mode == ModeAssign {
		state := v.styles.State(v.page.State).Render(v.page.State.String())
		b.WriteString(v.styles.Muted.Render("Page: ") + v.page.Label() + "  " + state)
		b.WriteString("\n\n")
	}

	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[enter] Apply  [esc] Cancel  (blank input leaves the page unchanged)"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
}

// Mode returns what submitting the form does.
func (v *View) Mode() Mode {
	return v.mode
}

// Value returns the trimmed input value.
func (v *View) Value() string {
	return v.input.Value()
}

// Suggestions returns the similar payloads on display.
func (v *View) Suggestions() []string {
	return v.input.Suggestions()
}

// Err returns the last error shown in the view.
func (v *View) Err() error {
	return v.err
}
