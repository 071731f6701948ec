package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/views/assign"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/views/groups"
	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/tui/views/pages"
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	status *status.Bar

	groupsView *groups.View
	pagesView  *pages.View
	assignView *assign.View

	// grouping is the last grouping loaded from the service.
	grouping *domain.Grouping

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help is closed.
	previousView messages.ViewType

	// scanEvents streams progress from the running batch, nil when idle.
	scanEvents <-chan tea.Msg

	// confirmClear is set after the first press of the clear key.
	confirmClear bool

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		status:      status.NewBar(s, km),
		groupsView:  groups.NewView(s),
		pagesView:   pages.NewView(s, ports.Scan),
		assignView:  assign.NewView(s, ports.Pages, ports.Grouping),
		currentView: messages.ViewGroups,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.pagesView.WithContext(ctx)
	a.assignView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("qrdoc"),
		a.loadGrouping(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.GroupingLoaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.grouping = msg.Grouping
		a.groupsView.SetGrouping(msg.Grouping)
		a.pagesView.Refresh(msg.Grouping)
		if msg.Stats != nil {
			a.status.SetStats(*msg.Stats)
		}
		return a, nil

	case messages.SectionSelected:
		a.pagesView.SetSection(msg.Section, a.grouping)
		a.switchTo(messages.ViewPages)
		return a, nil

	case messages.ViewChanged:
		a.switchTo(msg.View)
		return a, nil

	case messages.AssignRequested:
		a.switchTo(messages.ViewAssign)
		return a, a.assignView.EditPage(msg.Page)

	case messages.RenameRequested:
		a.switchTo(messages.ViewAssign)
		return a, a.assignView.EditGroup(msg.Payload)

	case messages.SuggestionsLoaded:
		a.assignView, cmd = a.assignView.Update(msg)
		return a, cmd

	case messages.PayloadAssigned:
		if msg.Err != nil {
			a.assignView, cmd = a.assignView.Update(msg)
			return a, cmd
		}
		a.notify(fmt.Sprintf("%s assigned to %s", msg.Page.Payload, msg.Page.Label()))
		a.switchTo(messages.ViewPages)
		return a, a.loadGrouping()

	case messages.GroupRenamed:
		if msg.Err != nil {
			a.assignView, cmd = a.assignView.Update(msg)
			return a, cmd
		}
		a.pagesView.SetSection(messages.Section{Kind: messages.SectionGroup, Payload: msg.To}, a.grouping)
		a.notify(fmt.Sprintf("Renamed %s to %s (%d pages)", msg.From, msg.To, msg.Count))
		a.switchTo(messages.ViewPages)
		return a, a.loadGrouping()

	case messages.PageRescanned:
		a.pagesView, cmd = a.pagesView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, cmd
		}
		a.notify(describePage(msg.Page))
		return a, tea.Batch(cmd, a.loadGrouping())

	case messages.ScanProgressed:
		a.status.SetProgress(msg.Progress)
		return a, tea.Batch(a.waitForScan(), a.loadGrouping())

	case messages.ScanCompleted:
		a.scanEvents = nil
		a.status.Clear()
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, a.loadGrouping()
		}
		s := msg.Summary
		a.notify(fmt.Sprintf("Scanned %d pages: %d decoded, %d unresolved, %d skipped",
			s.Total, s.Decoded, s.Unresolved, s.Skipped))
		return a, a.loadGrouping()

	case messages.Exported:
		a.status.Clear()
		switch {
		case errors.Is(msg.Err, domain.ErrNothingToExport):
			a.notify("Nothing to export")
		case msg.Err != nil:
			a.setError(msg.Err)
		default:
			a.notify(fmt.Sprintf("Exported %d documents to %s", len(msg.Documents), a.outputDir()))
		}
		return a, nil

	case messages.Cleared:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.notify("Cleared all pages")
		a.switchTo(messages.ViewGroups)
		return a, a.loadGrouping()

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		switch a.currentView {
		case messages.ViewPages:
			a.pagesView, cmd = a.pagesView.Update(msg)
		case messages.ViewAssign:
			a.assignView, cmd = a.assignView.Update(msg)
		case messages.ViewGroups, messages.ViewHelp:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a.forward(msg)
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// The payload form owns every key so payloads may contain any letter.
	if a.currentView == messages.ViewAssign {
		a.assignView, cmd = a.assignView.Update(msg)
		return a, cmd
	}

	confirming := a.confirmClear
	a.confirmClear = false
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(keyStr, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			a.switchTo(a.previousView)
		} else {
			a.previousView = a.currentView
			a.switchTo(messages.ViewHelp)
		}
		return a, nil
	case keymap.Matches(keyStr, a.keymap.Scan):
		return a, a.startScan()
	case keymap.Matches(keyStr, a.keymap.Export):
		a.status.SetState(status.StateExporting)
		return a, a.export()
	case keymap.Matches(keyStr, a.keymap.Clear):
		if confirming {
			return a, a.clear()
		}
		a.confirmClear = true
		a.notify("Press x again to remove every page")
		return a, nil
	}

	if a.currentView == messages.ViewHelp {
		if keymap.Matches(keyStr, a.keymap.Back) {
			a.switchTo(a.previousView)
		}
		return a, nil
	}
	return a.forward(msg)
}

// forward passes a message to the active view.
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewGroups:
		a.groupsView, cmd = a.groupsView.Update(msg)
	case messages.ViewPages:
		a.pagesView, cmd = a.pagesView.Update(msg)
	case messages.ViewAssign:
		a.assignView, cmd = a.assignView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) switchTo(view messages.ViewType) {
	a.currentView = view
	switch view {
	case messages.ViewPages:
		a.status.SetBindings(a.keymap.PagesHelp())
	case messages.ViewHelp:
		a.status.SetBindings(nil)
	case messages.ViewGroups, messages.ViewAssign:
		a.status.SetBindings(nil)
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.status.SetState(status.StateError)
	a.status.SetMessage(err.Error())
}

// notify shows an informational message, replacing any error.
func (a *App) notify(msg string) {
	if a.status.State() == status.StateError {
		a.status.SetState(status.StateReady)
	}
	a.status.SetMessage(msg)
}

func (a *App) outputDir() string {
	if a.ports.OutputDir == "" {
		return "."
	}
	return a.ports.OutputDir
}

// loadGrouping returns a command that recomputes the grouping.
func (a *App) loadGrouping() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		g, err := a.ports.Grouping.Groups(ctx)
		if err != nil {
			return messages.GroupingLoaded{Err: err}
		}
		stats, err := a.ports.Pages.Stats(ctx)
		return messages.GroupingLoaded{Grouping: g, Stats: stats, Err: err}
	}
}

// startScan launches a batch in the background. Progress is delivered
// one message at a time through waitForScan.
func (a *App) startScan() tea.Cmd {
	if a.scanEvents != nil {
		return nil
	}

	ctx := a.ctx
	events := make(chan tea.Msg, 1)
	a.scanEvents = events
	a.status.SetProgress(driving.ScanProgress{Running: true})

	go func() {
		defer close(events)
		send := func(msg tea.Msg) {
			select {
			case events <- msg:
			case <-ctx.Done():
			}
		}
		summary, err := a.ports.Scan.ScanAll(ctx, func(p driving.ScanProgress) {
			send(messages.ScanProgressed{Progress: p})
		})
		send(messages.ScanCompleted{Summary: summary, Err: err})
	}()

	return a.waitForScan()
}

func (a *App) waitForScan() tea.Cmd {
	events := a.scanEvents
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (a *App) export() tea.Cmd {
	ctx := a.ctx
	dir := a.outputDir()
	return func() tea.Msg {
		docs, err := a.ports.Export.ExportAll(ctx, dir)
		return messages.Exported{Documents: docs, Err: err}
	}
}

func (a *App) clear() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return messages.Cleared{Err: a.ports.Pages.Clear(ctx)}
	}
}

func describePage(p *domain.PageItem) string {
	if p == nil {
		return ""
	}
	if p.State == domain.PageStateDecoded {
		return fmt.Sprintf("%s: %s (%s)", p.Label(), p.Payload, p.Stage)
	}
	return fmt.Sprintf("%s: %s", p.Label(), p.State)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewPages:
		body = a.pagesView.View()
	case messages.ViewAssign:
		body = a.assignView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.groupsView.View()
	}

	gap := a.height - 1 - strings.Count(body, "\n") - 1
	if gap < 1 {
		gap = 1
	}
	return body + strings.Repeat("\n", gap) + a.status.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, column := range a.keymap.FullHelp() {
		for _, binding := range column {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("Pages are grouped by QR payload. Export writes one PDF per group."))
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Grouping returns the last loaded grouping.
func (a *App) Grouping() *domain.Grouping {
	return a.grouping
}

// Status returns the status bar.
func (a *App) Status() *status.Bar {
	return a.status
}

// Scanning reports whether a batch is running.
func (a *App) Scanning() bool {
	return a.scanEvents != nil
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.status.SetWidth(width)
	a.groupsView.SetDimensions(width, height-1)
	a.pagesView.SetDimensions(width, height-1)
	a.assignView.SetDimensions(width, height-1)
}
