// Package domain defines the core business entities for qrdoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PageItem: A scanned page and its decode state
//   - Group: Pages sharing one QR payload, destined for one PDF
//   - Grouping: Groups plus the unresolved and pending buckets
//   - ImageBlob: Encoded image bytes for one page
//   - RawScan: An imported file before it is split into pages
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
