package domain

import (
	"fmt"
	"strings"
	"time"
)

// PageState is the decode lifecycle state of a page.
type PageState string

// Page states.
const (
	// PageStatePending means the page has not been attempted yet.
	PageStatePending PageState = "pending"

	// PageStateInProgress means the decode chain is running for the page.
	PageStateInProgress PageState = "in_progress"

	// PageStateDecoded means the page carries a payload, decoded or manual.
	PageStateDecoded PageState = "decoded"

	// PageStateUnresolved means every decode stage failed.
	PageStateUnresolved PageState = "unresolved"
)

// IsValid returns true if the state is recognised.
func (s PageState) IsValid() bool {
	switch s {
	case PageStatePending, PageStateInProgress, PageStateDecoded, PageStateUnresolved:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s PageState) String() string {
	return string(s)
}

// PageItem is one scanned page awaiting or having undergone decoding.
type PageItem struct {
	// ID is the unique identifier, stable for the page's lifetime.
	ID string

	// ImageRef is the image store key holding the page raster.
	ImageRef string

	// SourceName is the base name of the imported file.
	SourceName string

	// SourcePage is the 1-based page number inside a PDF, 0 for plain images.
	SourcePage int

	// Payload is the trimmed QR payload or a manual override.
	// Empty means no payload.
	Payload string

	// State is the decode state.
	State PageState

	// Stage is the decode stage that produced Payload, if decoded automatically.
	Stage DecodeStage

	// Manual is true when Payload was entered by the user.
	Manual bool

	// Sequence preserves import order within a group.
	Sequence int64

	// ImportedAt is when the page was created.
	ImportedAt time.Time

	// UpdatedAt is when the page last changed state.
	UpdatedAt time.Time
}

// NewPageItem creates a pending page.
func NewPageItem(id, imageRef string, seq int64, now time.Time) PageItem {
	return PageItem{
		ID:         id,
		ImageRef:   imageRef,
		State:      PageStatePending,
		Sequence:   seq,
		ImportedAt: now,
		UpdatedAt:  now,
	}
}

// Label returns a human-readable page location such as "scan.pdf#3".
func (p *PageItem) Label() string {
	if p.SourcePage > 0 {
		return fmt.Sprintf("%s#%d", p.SourceName, p.SourcePage)
	}
	if p.SourceName != "" {
		return p.SourceName
	}
	return p.ID
}

// HasPayload reports whether the page belongs to a group.
func (p *PageItem) HasPayload() bool {
	return p.Payload != ""
}

// Begin moves a pending or unresolved page into the decode chain.
func (p *PageItem) Begin(now time.Time) error {
	switch p.State {
	case PageStatePending, PageStateUnresolved:
		p.State = PageStateInProgress
		p.UpdatedAt = now
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %s page", ErrInvalidTransition, p.State)
	}
}

// Resolve records a decoded payload for an in-progress page.
func (p *PageItem) Resolve(payload string, stage DecodeStage, now time.Time) error {
	if p.State != PageStateInProgress {
		return fmt.Errorf("%w: cannot resolve %s page", ErrInvalidTransition, p.State)
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return ErrInvalidPayload
	}
	p.Payload = payload
	p.Stage = stage
	p.Manual = false
	p.State = PageStateDecoded
	p.UpdatedAt = now
	return nil
}

// Fail marks an in-progress page as unresolved.
func (p *PageItem) Fail(now time.Time) error {
	if p.State != PageStateInProgress {
		return fmt.Errorf("%w: cannot fail %s page", ErrInvalidTransition, p.State)
	}
	p.Payload = ""
	p.Stage = StageNone
	p.State = PageStateUnresolved
	p.UpdatedAt = now
	return nil
}

// Override applies a user-supplied payload. The input is trimmed;
// blank input is rejected and leaves the page untouched.
func (p *PageItem) Override(payload string, now time.Time) error {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return ErrInvalidPayload
	}
	switch p.State {
	case PageStateUnresolved, PageStateDecoded:
	default:
		return fmt.Errorf("%w: cannot assign payload to %s page", ErrInvalidTransition, p.State)
	}
	p.Payload = payload
	p.Stage = StageNone
	p.Manual = true
	p.State = PageStateDecoded
	p.UpdatedAt = now
	return nil
}
