package model

import "errors"

var (
	// ErrValidation marks input rejected before any store call was made.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks an operation whose target record no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable marks a failed store call. In-memory state is
	// left at its last known-good value; the user re-triggers the action.
	ErrStoreUnavailable = errors.New("store unavailable")
)
