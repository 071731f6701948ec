// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewGroups is the overview of groups, unresolved and pending pages.
	ViewGroups ViewType = iota
	// ViewPages lists the pages of one section.
	ViewPages
	// ViewAssign is the manual payload entry form.
	ViewAssign
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewGroups:
		return "groups"
	case ViewPages:
		return "pages"
	case ViewAssign:
		return "assign"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// SectionKind identifies which part of a grouping a page list shows.
type SectionKind int

const (
	// SectionGroup is a single payload group.
	SectionGroup SectionKind = iota
	// SectionUnresolved holds pages every decode stage failed on.
	SectionUnresolved
	// SectionPending holds pages not yet attempted.
	SectionPending
)

// Section names one entry of the groups overview.
type Section struct {
	Kind    SectionKind
	Payload string
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// GroupingLoaded carries a fresh grouping and page stats.
type GroupingLoaded struct {
	Grouping *domain.Grouping
	Stats    *domain.Stats
	Err      error
}

// SectionSelected opens the page list for a section.
type SectionSelected struct {
	Section Section
}


// ScanProgressed reports progress of the running batch.
type ScanProgressed struct {
	Progress driving.ScanProgress
}

// ScanCompleted signals the batch finished.
type ScanCompleted struct {
	Summary *driving.ScanSummary
	Err     error
}

// PageRescanned signals a single page went through the decode chain again.
type PageRescanned struct {
	Page *domain.PageItem
	Err  error
}

// AssignRequested opens the payload form for a page.
type AssignRequested struct {
	Page domain.PageItem
}

// RenameRequested opens the payload form to rename a group.
type RenameRequested struct {
	Payload string
}

// SuggestionsLoaded carries existing payloads close to the typed value.
type SuggestionsLoaded struct {
	Query       string
	Suggestions []string
}

// PayloadAssigned signals a manual payload was applied.
type PayloadAssigned struct {
	Page *domain.PageItem
	Err  error
}

// GroupRenamed signals every page of a group moved to a new payload.
type GroupRenamed struct {
	From  string
	To    string
	Count int
	Err   error
}

// Exported signals documents were written.
type Exported struct {
	Documents []domain.ExportedDocument
	Err       error
}

// Cleared signals every page was removed.
type Cleared struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
