package service

import (
	"errors"
	"strings"
)

var (
	// ErrConflict means a uniqueness rule was violated (duplicate email).
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is the marker for every auth/authz failure. Match with
	// errors.Is; the concrete value carries the human-readable reason.
	ErrUnauthorized = errors.New("unauthorized")
)

// UnauthorizedError carries the reason reported to the caller while staying
// matchable as ErrUnauthorized.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string { return e.Reason }

func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

func unauthorized(reason string) error { return &UnauthorizedError{Reason: reason} }

// ValidationError lists every rule the input violated.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string { return strings.Join(e.Reasons, "; ") }
