package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Page Errors.

	// ErrImageUnreadable indicates a page image could not be rasterized.
	// The page resolves to unresolved; it never aborts a batch.
	ErrImageUnreadable = errors.New("image unreadable")

	// ErrDecodeExhausted indicates every decode stage ran without a match.
	ErrDecodeExhausted = errors.New("decode exhausted")

	// ErrInvalidPayload indicates an empty or whitespace-only manual payload.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidTransition indicates the page state does not allow the operation.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnsupportedFormat indicates an imported file is neither an image nor a PDF.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNothingToExport indicates no page carries a payload yet.
	ErrNothingToExport = errors.New("nothing to export")

	// ErrScanInProgress indicates a batch scan is already running.
	ErrScanInProgress = errors.New("scan in progress")
)
