// Package pages provides the page list view for one section of the grouping.
package pages

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// View lists the pages of a group, of the unresolved section or of
// the pending section.
type View struct {
	styles      *styles.Styles
	scanService driving.ScanService
	list        *list.PageList

	ctx     context.Context
	section messages.Section
	width   int
	height  int
	err     error
}

// NewView creates a new pages view.
func NewView(s *styles.Styles, scanService driving.ScanService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:      s,
		scanService: scanService,
		list:        list.NewPageList(s),
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for rescans.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetSection chooses which part of g to list.
func (v *View) SetSection(section messages.Section, g *domain.Grouping) {
	if section != v.section {
		v.list.SetSelected(0)
	}
	v.section = section
	v.err = nil
	v.Refresh(g)
}

// Refresh reloads the listed pages from a new grouping.
func (v *View) Refresh(g *domain.Grouping) {
	v.list.SetPages(v.title(), pagesFor(v.section, g))
}

func pagesFor(section messages.Section, g *domain.Grouping) []domain.PageItem {
	if g == nil {
		return nil
	}
	switch section.Kind {
	case messages.SectionUnresolved:
		return g.Unresolved
	case messages.SectionPending:
		return g.Pending
	case messages.SectionGroup:
		if grp, ok := g.Find(section.Payload); ok {
			return grp.Pages
		}
	}
	return nil
}

func (v *View) title() string {
	switch v.section.Kind {
	case messages.SectionUnresolved:
		return "Unresolved"
	case messages.SectionPending:
		return "Pending"
	default:
		return v.section.Payload
	}
}

// Update handles messages for the pages view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.PageRescanned:
		v.err = msg.Err
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "down", "j":
		v.list, _ = v.list.Update(msg)
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewGroups}
		}
	case "r":
		if page := v.list.SelectedPage(); page != nil {
			return v, v.rescan(page.ID)
		}
	case "a":
		if page := v.list.SelectedPage(); page != nil {
			p := *page
			return v, func() tea.Msg {
				return messages.AssignRequested{Page: p}
			}
		}
	case "n":
		if v.section.Kind == messages.SectionGroup && !v.list.IsEmpty() {
			payload := v.section.Payload
			return v, func() tea.Msg {
				return messages.RenameRequested{Payload: payload}
			}
		}
	}
	return v, nil
}

// rescan returns a command that runs the decode chain for one page.
func (v *View) rescan(id string) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.scanService == nil {
			return messages.PageRescanned{Err: fmt.Errorf("scan service not available")}
		}
		page, err := v.scanService.Rescan(ctx, id)
		return messages.PageRescanned{Page: page, Err: err}
	}
}

// View renders the pages view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	footer := "[r] Rescan  [a] Assign  [esc] Back"
	if v.section.Kind == messages.SectionGroup {
		footer = "[r] Rescan  [a] Assign  [n] Rename group  [esc] Back"
	}
	b.WriteString(v.styles.Help.Render(footer))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-4)
}

// Section returns the listed section.
func (v *View) Section() messages.Section {
	return v.section
}

// Pages returns the listed pages.
func (v *View) Pages() []domain.PageItem {
	return v.list.Pages()
}

// SelectedPage returns the page under the cursor.
func (v *View) SelectedPage() *domain.PageItem {
	return v.list.SelectedPage()
}

// Err returns the last error shown in the view.
func (v *View) Err() error {
	return v.err
}
