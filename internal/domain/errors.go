package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	// Soft-deleted rows report it too.
	ErrNotFound = errors.New("domain: not found")

	// ErrConflict is returned when a uniqueness or state constraint
	// rejects a write.
	ErrConflict = errors.New("domain: conflict")
)
