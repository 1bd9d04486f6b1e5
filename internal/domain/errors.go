package domain

import (
	"errors"
	"fmt"
)

// ErrNoCatalog is returned when no pattern catalog is registered for a file extension.
var ErrNoCatalog = errors.New("no pattern catalog registered")

// ResolverError is the base error type with context.
type ResolverError struct {
	Phase      string // "config", "scan", "parse", "assemble", "migrate", "resolve", "load", "report", "write"
	File       string
	Position   int // byte offset into the source, 0 when unknown
	Message    string
	Suggestion string
	Cause      error
}

func (e *ResolverError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.Position > 0 {
		s += fmt.Sprintf("@%d", e.Position)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *ResolverError) Unwrap() error {
	return e.Cause
}

// NewError creates a new ResolverError.
func NewError(phase, file string, position int, message string, cause error) *ResolverError {
	return &ResolverError{
		Phase:    phase,
		File:     file,
		Position: position,
		Message:  message,
		Cause:    cause,
	}
}

// NewErrorWithSuggestion creates a ResolverError carrying a hint for the user.
func NewErrorWithSuggestion(phase, file string, position int, message, suggestion string, cause error) *ResolverError {
	e := NewError(phase, file, position, message, cause)
	e.Suggestion = suggestion
	return e
}
