// Package apperr defines sentinel errors shared across service boundaries.
package apperr

import "errors"

// ErrNotFound is returned when an identifier or path does not resolve
// to a known font. Stale menu identifiers map here; callers treat it
// as a no-op, never as fatal.
var ErrNotFound = errors.New("not found")
