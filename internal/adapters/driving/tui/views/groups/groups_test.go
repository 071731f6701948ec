package groups

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

func testGrouping() *domain.Grouping {
	return &domain.Grouping{
		Groups: []domain.Group{
			{Payload: "DOC1", Pages: []domain.PageItem{{ID: "a"}, {ID: "b"}}},
			{Payload: "DOC2", Pages: []domain.PageItem{{ID: "c"}}},
			{Payload: "DOC10", Pages: []domain.PageItem{{ID: "d"}}},
		},
		Unresolved: []domain.PageItem{{ID: "e"}},
		Pending:    []domain.PageItem{{ID: "f"}, {ID: "g"}},
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.Nil(t, v.Init())
	assert.Nil(t, v.SelectedItem())
	assert.Equal(t, "Initialising...", v.View())
}

func TestSetGrouping_Items(t *testing.T) {
	v := NewView(nil)

	v.SetGrouping(testGrouping())

	items := v.Items()
	require.Len(t, items, 5)
	assert.Equal(t, "DOC1", items[0].Label)
	assert.Equal(t, 2, items[0].Count)
	assert.Equal(t, "DOC10", items[2].Label)
	assert.Equal(t, messages.SectionUnresolved, items[3].Section.Kind)
	assert.Equal(t, messages.SectionPending, items[4].Section.Kind)
	assert.Equal(t, 2, items[4].Count)
}

func TestSetGrouping_OmitsEmptySections(t *testing.T) {
	v := NewView(nil)

	v.SetGrouping(&domain.Grouping{Groups: []domain.Group{{Payload: "A", Pages: []domain.PageItem{{ID: "x"}}}}})

	assert.Len(t, v.Items(), 1)
}

func TestSetGrouping_KeepsSelection(t *testing.T) {
	v := NewView(nil)
	v.SetGrouping(testGrouping())
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "DOC10", v.SelectedItem().Label)

	g := testGrouping()
	g.Groups = append([]domain.Group{{Payload: "DOC0", Pages: []domain.PageItem{{ID: "z"}}}}, g.Groups...)
	v.SetGrouping(g)

	assert.Equal(t, 3, v.Selected())
	assert.Equal(t, "DOC10", v.SelectedItem().Label)
}

func TestSetGrouping_SelectionGone(t *testing.T) {
	v := NewView(nil)
	v.SetGrouping(testGrouping())
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})

	v.SetGrouping(&domain.Grouping{Groups: []domain.Group{{Payload: "DOC1"}}})

	assert.Equal(t, 0, v.Selected())
}

func TestUpdate_Navigation(t *testing.T) {
	v := NewView(nil)
	v.SetGrouping(testGrouping())

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.Selected())

	for i := 0; i < 10; i++ {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	}
	assert.Equal(t, 4, v.Selected())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 3, v.Selected())
}

func TestUpdate_EnterSelectsSection(t *testing.T) {
	v := NewView(nil)
	v.SetGrouping(testGrouping())
	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.SectionSelected)
	require.True(t, ok)
	assert.Equal(t, messages.Section{Kind: messages.SectionGroup, Payload: "DOC2"}, msg.Section)
}

func TestUpdate_EnterWithoutItems(t *testing.T) {
	v := NewView(nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestUpdate_WindowSize(t *testing.T) {
	v := NewView(nil)

	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.True(t, v.ready)
	assert.Equal(t, 100, v.width)
	assert.Equal(t, 40, v.height)
}

func TestView_States(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(100, 30)

	assert.Contains(t, v.View(), "Loading...")

	v.SetGrouping(&domain.Grouping{})
	assert.Contains(t, v.View(), "No pages imported")

	v.SetGrouping(testGrouping())
	view := v.View()
	assert.Contains(t, view, "DOC1")
	assert.Contains(t, view, "2 pages")
	assert.Contains(t, view, "1 page")
	assert.Contains(t, view, "Unresolved")
	assert.Contains(t, view, "Pending")
}
