package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes; services return them wrapped or bare and callers match
// with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
)
