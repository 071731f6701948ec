// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Besides the ports they only rely on
// the pixel filters in internal/filters and small pure-Go helpers for
// collation, identifiers and bounded concurrency.
package services
