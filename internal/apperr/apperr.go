// Package apperr defines the error kinds surfaced to API callers.
package apperr

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an application error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindUnauthorized
	KindForbidden
)

// Error is a client-facing failure. Fields carries per-field messages for
// validation errors; Message is used when the failure is not tied to a field.
type Error struct {
	Kind    Kind
	Key     string
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return strings.Join(parts, ", ")
}

// Body returns the JSON-ready payload for the error.
func (e *Error) Body() map[string]any {
	if len(e.Fields) > 0 {
		body := make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			body[k] = v
		}
		return body
	}
	key := e.Key
	if key == "" {
		key = "detail"
	}
	return map[string]any{key: e.Message}
}

// Invalid reports a validation failure on a single field.
func Invalid(field, msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: map[string][]string{field: {msg}}}
}

// Rejected reports a validation failure that belongs to no field.
// It renders under the "errors" key.
func Rejected(msg string) *Error {
	return &Error{Kind: KindValidation, Key: "errors", Message: msg}
}

// NotFound reports a missing resource.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// MissingAssociation reports removal of a pair that does not exist.
func MissingAssociation(msg string) *Error {
	return &Error{Kind: KindNotFound, Key: "errors", Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// FieldErrors accumulates validation messages across fields.
type FieldErrors map[string][]string

// Add records msg against field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Err returns nil when nothing was recorded.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Message: "invalid input", Fields: f}
}

// KindOf returns the Kind of err, or 0 for non-application errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
