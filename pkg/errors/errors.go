// Package errors provides structured error types for depmgmt.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Resolution failures are grouped by the stage that produced them:
//   - MALFORMED_COORDINATE: the input coordinate string is unusable
//   - UNRESOLVABLE_ARTIFACT / UNRESOLVABLE_MODEL: no repository yielded the file
//   - MODEL_BUILD: the descriptor could not be merged into an effective model
//   - NOT_INITIALIZED: a service was used before it was constructed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedCoordinate, "bad coordinate %q", s)
//	if errors.Is(err, errors.ErrCodeMalformedCoordinate) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeMalformedCoordinate Code = "MALFORMED_COORDINATE"
	ErrCodeInvalidRepository   Code = "INVALID_REPOSITORY"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"
	ErrCodeInvalidPath         Code = "INVALID_PATH"

	// Resolution errors
	ErrCodeUnresolvableArtifact Code = "UNRESOLVABLE_ARTIFACT"
	ErrCodeUnresolvableModel    Code = "UNRESOLVABLE_MODEL"
	ErrCodeModelBuild           Code = "MODEL_BUILD"
	ErrCodeNotFound             Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Lifecycle and internal errors
	ErrCodeNotInitialized Code = "NOT_INITIALIZED"
	ErrCodeInternal       Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// ErrNotInitialized is returned by services that were used before construction.
var ErrNotInitialized = New(ErrCodeNotInitialized, "service used before initialization")

// coded is implemented by typed errors that carry a code without embedding *Error.
type coded interface {
	ErrorCode() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error with a
// matching code. The outermost coded error wins.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coded:
			return e.ErrorCode()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RepositoryFailure records why a single repository could not serve a file.
type RepositoryFailure struct {
	RepositoryID string
	URL          string
	Err          error
}

func (f RepositoryFailure) String() string {
	return fmt.Sprintf("%s (%s): %v", f.RepositoryID, f.URL, f.Err)
}

// UnresolvableArtifactError is returned when no repository yielded the requested file.
//
// Cause holds the last repository failure only; Failures keeps every attempt in
// the order the repositories were tried.
type UnresolvableArtifactError struct {
	Coordinate string
	Extension  string
	Cause      error
	Failures   []RepositoryFailure
}

func (e *UnresolvableArtifactError) Error() string {
	msg := fmt.Sprintf("%s: could not resolve %s (extension %q)", ErrCodeUnresolvableArtifact, e.Coordinate, e.Extension)
	if len(e.Failures) > 1 {
		parts := make([]string, len(e.Failures))
		for i, f := range e.Failures {
			parts[i] = f.String()
		}
		return msg + ": tried " + strings.Join(parts, "; ")
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *UnresolvableArtifactError) Unwrap() error   { return e.Cause }
func (e *UnresolvableArtifactError) ErrorCode() Code { return ErrCodeUnresolvableArtifact }

// UnresolvableModelError is returned when a descriptor could not be fetched for a GAV.
type UnresolvableModelError struct {
	GroupID    string
	ArtifactID string
	Version    string
	Cause      error
}

func (e *UnresolvableModelError) Error() string {
	msg := fmt.Sprintf("%s: could not resolve model %s:%s:%s", ErrCodeUnresolvableModel, e.GroupID, e.ArtifactID, e.Version)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *UnresolvableModelError) Unwrap() error   { return e.Cause }
func (e *UnresolvableModelError) ErrorCode() Code { return ErrCodeUnresolvableModel }

// Severity classifies a model building problem.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// Problem is a single issue found while building an effective model.
type Problem struct {
	Severity Severity
	Source   string // model id (g:a:v) or file path
	Message  string
	Cause    error
}

func (p Problem) String() string {
	s := fmt.Sprintf("[%s] %s", p.Severity, p.Message)
	if p.Source != "" {
		s += " @ " + p.Source
	}
	if p.Cause != nil {
		s += ": " + p.Cause.Error()
	}
	return s
}

// ModelBuildError is returned when an effective model could not be built.
// Cause is the first fatal cause, if any; Problems lists every problem found.
type ModelBuildError struct {
	ModelID  string
	Problems []Problem
	Cause    error
}

func (e *ModelBuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: failed to build effective model", ErrCodeModelBuild)
	if e.ModelID != "" {
		fmt.Fprintf(&b, " for %s", e.ModelID)
	}
	var shown int
	for _, p := range e.Problems {
		if p.Severity < SeverityError {
			continue
		}
		if shown == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(p.String())
		shown++
	}
	if shown == 0 && e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *ModelBuildError) Unwrap() error   { return e.Cause }
func (e *ModelBuildError) ErrorCode() Code { return ErrCodeModelBuild }
