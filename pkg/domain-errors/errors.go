// Package domainerrors defines the typed error channel for business-rule
// violations. Every error carries a machine-readable code, a human message,
// and optional structured details so transport layers can translate failures
// without string matching.
//
// Infrastructure facts (row absent, connection refused) are expressed with
// pkg/platform/sentinel errors at the store layer; services translate them
// into domain errors here.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies the category of a domain error.
type Code string

const (
	// CodeNotFound: the requested aggregate does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict: a uniqueness rule was violated (duplicate email).
	CodeConflict Code = "conflict"
	// CodeInvalidStatus: the client state machine forbids the operation.
	CodeInvalidStatus Code = "invalid_status"
	// CodeInvalidInput: a raw value failed value-object validation.
	CodeInvalidInput Code = "invalid_input"
	// CodeValidation: a request DTO failed validation.
	CodeValidation Code = "validation_error"
	// CodeInvariantViolation: an entity invariant would be broken.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeBadRequest: the request is malformed at the transport boundary.
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized: missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal: an infrastructure failure surfaced through a use case.
	CodeInternal Code = "internal_error"
)

// Error is the single error type crossing the use-case boundary.
type Error struct {
	Code    Code
	Message string
	Details map[string]any

	cause error
}

// New constructs a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error while preserving
// the cause for errors.Is/As chains.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// WithDetail returns the same error with one structured detail attached.
// Details are advisory context for callers and logs, never control flow.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is makes two domain errors equivalent when their codes match, so
// errors.Is(err, domainerrors.New(CodeNotFound, "")) works in tests.
func (e *Error) Is(target error) bool {
	var de *Error
	if !errors.As(target, &de) {
		return false
	}
	return e.Code == de.Code
}

// HasCode reports whether err is (or wraps) a domain error with the code.
func HasCode(err error, code Code) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == code
}

// FromError extracts the domain error from err, or nil if err carries none.
func FromError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return nil
}
