package registry

import (
	"errors"
	"fmt"
)

// Error is a registry failure with a taxonomy code.
//
// Every check runs before any write; when an operation returns an Error
// its effect set is empty. Codes tell the caller what to do next:
//
//   - FIELD_TOO_LONG: shorten the input and retry
//   - INVALID_STATE: illegal workflow transition, do not retry unchanged
//   - UNAUTHORIZED: missing credential or ownership mismatch, fatal
//   - NOT_FOUND: no record at the derived address
//   - ALREADY_EXISTS: derived address occupied
//   - ALREADY_INITIALIZED: duplicate family bootstrap
//   - OVERFLOW: family counter exhausted, fatal
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the offending field (for FIELD_TOO_LONG).
	Field string

	// Kind names the affected record kind, when one is involved.
	Kind string
}

// ErrorCode categorizes registry errors.
type ErrorCode string

const (
	ErrCodeFieldTooLong       ErrorCode = "FIELD_TOO_LONG"
	ErrCodeInvalidState       ErrorCode = "INVALID_STATE"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrCodeAlreadyInitialized ErrorCode = "ALREADY_INITIALIZED"
	ErrCodeOverflow           ErrorCode = "OVERFLOW"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	case e.Kind != "":
		return fmt.Sprintf("%s: %s (kind=%s)", e.Code, e.Message, e.Kind)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// CodeOf extracts the taxonomy code from err, unwrapping as needed.
// Returns "" for non-registry errors.
func CodeOf(err error) ErrorCode {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsFieldTooLong reports whether err is a field length violation.
func IsFieldTooLong(err error) bool { return CodeOf(err) == ErrCodeFieldTooLong }

// IsInvalidState reports whether err is an illegal workflow transition.
func IsInvalidState(err error) bool { return CodeOf(err) == ErrCodeInvalidState }

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool { return CodeOf(err) == ErrCodeUnauthorized }

// IsNotFound reports whether err is a missing-record failure.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsAlreadyExists reports whether err is an address-occupancy conflict.
func IsAlreadyExists(err error) bool { return CodeOf(err) == ErrCodeAlreadyExists }

// IsAlreadyInitialized reports whether err is a duplicate bootstrap.
func IsAlreadyInitialized(err error) bool { return CodeOf(err) == ErrCodeAlreadyInitialized }

// IsOverflow reports whether err is a counter exhaustion failure.
func IsOverflow(err error) bool { return CodeOf(err) == ErrCodeOverflow }

func errFieldTooLong(field string, got, max int) *Error {
	return &Error{
		Code:    ErrCodeFieldTooLong,
		Message: fmt.Sprintf("%d bytes exceeds maximum %d", got, max),
		Field:   field,
	}
}

func errInvalidState(kind, msg string) *Error {
	return &Error{Code: ErrCodeInvalidState, Message: msg, Kind: kind}
}

func errUnauthorized(msg string) *Error {
	return &Error{Code: ErrCodeUnauthorized, Message: msg}
}

func errNotFound(kind string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: "no record at derived address", Kind: kind}
}

func errAlreadyExists(kind, msg string) *Error {
	return &Error{Code: ErrCodeAlreadyExists, Message: msg, Kind: kind}
}

func errAlreadyInitialized(family string) *Error {
	return &Error{
		Code:    ErrCodeAlreadyInitialized,
		Message: fmt.Sprintf("family %q is already initialized", family),
	}
}

func errOverflow(family string) *Error {
	return &Error{
		Code:    ErrCodeOverflow,
		Message: fmt.Sprintf("family %q counter exhausted", family),
	}
}
