// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios without string matching.
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as deleting a class
// that still has seating periods.  Handlers translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")
