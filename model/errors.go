package model

import "errors"

var (
	// ErrNotFound is returned when an identifier does not resolve.
	ErrNotFound = errors.New("object not found")
	// ErrKindMismatch is returned when an object resolves but has the wrong kind.
	ErrKindMismatch = errors.New("object kind mismatch")
	// ErrInvalidSnapshot is returned when a snapshot cannot be applied.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
