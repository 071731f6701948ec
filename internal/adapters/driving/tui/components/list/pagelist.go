// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// PageList displays pages in a navigable list.
type PageList struct {
	title    string
	pages    []domain.PageItem
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewPageList creates a new page list component.
func NewPageList(s *styles.Styles) *PageList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &PageList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the page list.
func (l *PageList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *PageList) Update(msg tea.Msg) (*PageList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the page list.
func (l *PageList) View() string {
	lines := make([]string, 0, len(l.pages)+2)
	if l.title != "" {
		lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.title, len(l.pages))), "")
	}

	if len(l.pages) == 0 {
		return strings.Join(append(lines, l.styles.Muted.Render("No pages")), "\n")
	}

	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.pages) {
		end = len(l.pages)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderPage(i, &l.pages[i]))
	}
	return strings.Join(lines, "\n")
}

// renderPage formats one page as "label  state  payload".
func (l *PageList) renderPage(index int, p *domain.PageItem) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	label := p.Label()
	maxLabel := l.width - 40
	if maxLabel < 10 {
		maxLabel = 10
	}
	if len(label) > maxLabel {
		label = label[:maxLabel-3] + "..."
	}

	detail := p.Payload
	if p.Manual {
		detail += " (manual)"
	} else if p.Stage != domain.StageNone {
		detail += " [" + p.Stage.String() + "]"
	}

	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %-11s  %s", indicator, maxLabel, label, p.State, detail))
	}
	return l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxLabel, label)) +
		l.styles.State(p.State).Render(fmt.Sprintf("%-11s", p.State)) + "  " +
		l.detailStyle(p).Render(detail)
}

func (l *PageList) detailStyle(p *domain.PageItem) lipgloss.Style {
	if p.Manual {
		return l.styles.Manual
	}
	return l.styles.Muted
}

// SetPages replaces the listed pages, keeping the selection in range.
func (l *PageList) SetPages(title string, pages []domain.PageItem) {
	l.title = title
	l.pages = pages
	if l.selected >= len(pages) {
		l.selected = len(pages) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Pages returns the listed pages.
func (l *PageList) Pages() []domain.PageItem {
	return l.pages
}

// Title returns the list heading.
func (l *PageList) Title() string {
	return l.title
}

// Selected returns the index of the selected page.
func (l *PageList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *PageList) SetSelected(index int) {
	if index >= 0 && index < len(l.pages) {
		l.selected = index
	}
}

// SelectedPage returns the currently selected page, or nil if none.
func (l *PageList) SelectedPage() *domain.PageItem {
	if len(l.pages) == 0 || l.selected < 0 || l.selected >= len(l.pages) {
		return nil
	}
	return &l.pages[l.selected]
}

// MoveUp moves selection up.
func (l *PageList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *PageList) MoveDown() {
	if l.selected < len(l.pages)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *PageList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of pages.
func (l *PageList) Count() int {
	return len(l.pages)
}

// IsEmpty returns whether the list is empty.
func (l *PageList) IsEmpty() bool {
	return len(l.pages) == 0
}
