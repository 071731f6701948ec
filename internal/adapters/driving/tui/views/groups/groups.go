// Package groups provides the grouping overview, the TUI's home view.
package groups

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// Item is one row of the overview.
type Item struct {
	Section messages.Section
	Label   string
	Count   int
}

// View lists every group in collation order, followed by the
// unresolved and pending sections.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
	loaded   bool
}

// NewView creates a new groups view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// Init initialises the groups view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetGrouping rebuilds the rows from a grouping, keeping the selected
// section when it still exists.
func (v *View) SetGrouping(g *domain.Grouping) {
	var current *messages.Section
	if item := v.SelectedItem(); item != nil {
		s := item.Section
		current = &s
	}

	v.items = itemsFor(g)
	v.loaded = true
	v.selected = 0
	if current == nil {
		return
	}
	for i, item := range v.items {
		if item.Section == *current {
			v.selected = i
			return
		}
	}
}

func itemsFor(g *domain.Grouping) []Item {
	if g == nil {
		return nil
	}
	items := make([]Item, 0, len(g.Groups)+2)
	for _, grp := range g.Groups {
		items = append(items, Item{
			Section: messages.Section{Kind: messages.SectionGroup, Payload: grp.Payload},
			Label:   grp.Payload,
			Count:   len(grp.Pages),
		})
	}
	if len(g.Unresolved) > 0 {
		items = append(items, Item{
			Section: messages.Section{Kind: messages.SectionUnresolved},
			Label:   "Unresolved",
			Count:   len(g.Unresolved),
		})
	}
	if len(g.Pending) > 0 {
		items = append(items, Item{
			Section: messages.Section{Kind: messages.SectionPending},
			Label:   "Pending",
			Count:   len(g.Pending),
		})
	}
	return items
}

// Update handles messages for the groups view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case "enter":
			if item := v.SelectedItem(); item != nil {
				section := item.Section
				return v, func() tea.Msg {
					return messages.SectionSelected{Section: section}
				}
			}
		}
	}
	return v, nil
}

// View renders the groups view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("qrdoc"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Scanned pages grouped by QR payload"))
	b.WriteString("\n\n")

	switch {
	case !v.loaded:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case len(v.items) == 0:
		b.WriteString(v.styles.Muted.Render("No pages imported. Start qrdoc with files or directories to import."))
	default:
		v.renderItems(&b)
	}
	return b.String()
}

func (v *View) renderItems(b *strings.Builder) {
	visible := v.height - 6
	if visible < 1 {
		visible = 1
	}
	start := 0
	if v.selected >= visible {
		start = v.selected - visible + 1
	}
	end := start + visible
	if end > len(v.items) {
		end = len(v.items)
	}

	for i := start; i < end; i++ {
		item := v.items[i]
		line := fmt.Sprintf("%-40s %4d pages", item.Label, item.Count)
		if item.Count == 1 {
			line = fmt.Sprintf("%-40s %4d page", item.Label, item.Count)
		}

		switch {
		case i == v.selected:
			b.WriteString(v.styles.Selected.Render("> " + line))
		case item.Section.Kind == messages.SectionUnresolved:
			b.WriteString("  " + v.styles.Error.Render(line))
		case item.Section.Kind == messages.SectionPending:
			b.WriteString("  " + v.styles.Warning.Render(line))
		default:
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Items returns the rows of the overview.
func (v *View) Items() []Item {
	return v.items
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// SelectedItem returns the selected row, or nil when there are none.
func (v *View) SelectedItem() *Item {
	if v.selected < 0 || v.selected >= len(v.items) {
		return nil
	}
	return &v.items[v.selected]
}
