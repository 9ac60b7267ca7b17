// Package domainerrors carries coded errors from services to the transport layer.
//
// Services return *Error values; handlers translate the Code into an HTTP status
// via httputil.WriteError. Field-level violations travel in Fields so a caller can
// render every problem with a submission at once.
package domainerrors

import (
	"errors"
	"sort"
)

type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeBusinessRule       Code = "business_rule"
	CodeMalformedInput     Code = "malformed_input"
	CodeNotFound           Code = "not_found"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal_error"
)

// FieldError is a single violation attached to a field. Type is the rule kind
// ("invalid", "required", "business_rule", ...).
type FieldError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// FieldErrors maps a field name to every violation reported for it.
type FieldErrors map[string][]FieldError

// Add appends a violation for field.
func (f FieldErrors) Add(field, kind, message string) {
	f[field] = append(f[field], FieldError{Type: kind, Message: message})
}

// Merge copies all violations from other into f.
func (f FieldErrors) Merge(other FieldErrors) {
	for field, errs := range other {
		f[field] = append(f[field], errs...)
	}
}

// Fields returns the violated field names in sorted order.
func (f FieldErrors) Fields() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Error is the coded domain error.
type Error struct {
	Code    Code
	Message string
	Fields  FieldErrors
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithFields builds an error that carries field-level violations.
func WithFields(code Code, message string, fields FieldErrors) *Error {
	return &Error{Code: code, Message: message, Fields: fields}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}
