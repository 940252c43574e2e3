package domain

import "errors"

var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")
	// ErrNoActiveResponse indicates that a resolved Action (including the
	// UNKNOWN fallback) has no active Response. This is a host configuration
	// error and is always fatal to the caller.
	ErrNoActiveResponse = errors.New("no active response for action")
	// ErrDuplicateEntry indicates a unique constraint violation.
	ErrDuplicateEntry = errors.New("duplicate entry")
)
