// Package apierr defines the closed error taxonomy used at the API boundary.
//
// Every failure that reaches a client is normalized into exactly one Error
// variant before serialization. Each variant fixes an HTTP status and a
// stable, machine-readable code, and may carry per-field details. Handlers
// call Classify on any error bubbling up from services so that nothing
// untyped ever crosses the HTTP boundary.
//
// Conventions:
//   - Codes are UPPER_SNAKE_CASE and form a closed set (see constants below).
//   - Details map a field name to an ordered list of unique messages; the
//     order is the order in which the problems were discovered.
//   - Errors are constructed once at the failure site and passed up
//     unchanged; they are never mutated or retried by this package.
//
// Example wire shape:
//
//	HTTP/1.1 409 Conflict
//	{
//	  "error": {
//	    "message": "A post with slug \"hello-world\" already exists",
//	    "code": "DUPLICATE_SLUG",
//	    "details": {"slug": ["Slug \"hello-world\" is already in use"]}
//	  }
//	}
package apierr

import (
	"fmt"
	"net/http"
)

// Stable, machine-readable error codes returned to API clients.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeDuplicateSlug        = "DUPLICATE_SLUG"
	CodeForeignKeyConstraint = "FOREIGN_KEY_CONSTRAINT"
	CodeDatabase             = "DATABASE_ERROR"
	CodeInternal             = "INTERNAL_ERROR"
)

// FieldError describes one failed validation rule for one field.
//
// Field identifies the offending input field (or the pseudo-field "root"
// when the whole payload is malformed), Code is a machine-readable reason
// (see internal/validation), and Message is safe to show to users.
//
// The type lives here, not in the validation package, so that this taxonomy
// has no dependencies while validators can still produce the exact shape
// NewValidation consumes.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error is the single error type recognized at the system boundary.
//
// Status is one of 400/404/409/500, Code one of the constants above.
// Details is optional; when present it maps field names to ordered lists of
// unique messages. The wrapped cause (if any) is retained for logs only and
// is never serialized into responses.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string][]string

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the originating failure (e.g., a raw DB error) so callers
// can inspect it with errors.Is/errors.As. Only DATABASE_ERROR carries one.
func (e *Error) Unwrap() error { return e.cause }

// ErrorBody is the inner object of the wire envelope.
type ErrorBody struct {
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Details map[string][]string `json:"details,omitempty"`
}

// Response is the standard error envelope returned by all endpoints.
type Response struct {
	Error ErrorBody `json:"error"`
}

// Response converts the error into its wire envelope. Empty details are
// omitted from the serialized body.
func (e *Error) Response() Response {
	body := ErrorBody{Message: e.Message, Code: e.Code}
	if len(e.Details) > 0 {
		body.Details = e.Details
	}
	return Response{Error: body}
}

// NewValidation builds a 400 VALIDATION_ERROR from a flat list of field
// errors. Messages are grouped by field, de-duplicated per field, and kept
// in first-seen order.
func NewValidation(fieldErrs []FieldError) *Error {
	details := make(map[string][]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if containsString(details[fe.Field], fe.Message) {
			continue
		}
		details[fe.Field] = append(details[fe.Field], fe.Message)
	}
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "Validation failed",
		Details: details,
	}
}

// NewNotFound builds a 404 NOT_FOUND for the named resource. When an
// identifier is supplied it is included in the message.
func NewNotFound(resource string, id ...any) *Error {
	msg := resource + " not found"
	if len(id) > 0 {
		msg = fmt.Sprintf("%s with id %v not found", resource, id[0])
	}
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

// NewConflict builds a 409 CONFLICT with an optional details mapping.
func NewConflict(message string, details map[string][]string) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeConflict, Message: message, Details: details}
}

// NewDuplicateSlug builds a 409 DUPLICATE_SLUG for the given slug value.
func NewDuplicateSlug(slug string) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Code:    CodeDuplicateSlug,
		Message: fmt.Sprintf("A post with slug %q already exists", slug),
		Details: map[string][]string{"slug": {fmt.Sprintf("Slug %q is already in use", slug)}},
	}
}

// NewForeignKey builds a 400 FOREIGN_KEY_CONSTRAINT for a reference field
// pointing at a missing entity.
func NewForeignKey(field string, value any) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeForeignKeyConstraint,
		Message: fmt.Sprintf("Referenced %s %v does not exist", field, value),
		Details: map[string][]string{field: {fmt.Sprintf("%s %v does not exist", field, value)}},
	}
}

// NewDatabase builds a 500 DATABASE_ERROR that retains cause for logging.
// The cause is reachable via Unwrap but never appears in the response body.
func NewDatabase(cause error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    CodeDatabase,
		Message: "A database error occurred",
		cause:   cause,
	}
}

// NewInternal builds a 500 INTERNAL_ERROR with the given message.
func NewInternal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: message}
}

// Classify normalizes any failure value into a known Error variant.
//
// Already-typed errors pass through unchanged. Any other non-nil error
// becomes a 500 INTERNAL_ERROR carrying the original message. A nil error
// (callers should not do this, but nothing unclassified may escape) becomes
// a 500 INTERNAL_ERROR with a fixed message.
func Classify(err error) *Error {
	if err == nil {
		return NewInternal("internal server error")
	}
	if ae, ok := err.(*Error); ok {
		return ae
	}
	return NewInternal(err.Error())
}

// IsRetryable reports whether callers (e.g., an upstream gateway) may retry
// the failed operation. Only server-side failures (status >= 500) qualify.
// This package performs no retries itself.
func IsRetryable(e *Error) bool {
	return e != nil && e.Status >= http.StatusInternalServerError
}

// containsString reports whether list already holds s.
func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
