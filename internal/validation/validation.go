// Package validation implements the declarative, field-level validator
// framework gating the posts API.
//
// Each validator is a pure function over an untyped input value (a decoded
// JSON body or a parsed query string) returning a Result: either a fully
// sanitized, typed DTO or the complete list of field errors discovered in
// that call. Validators never return Go errors and never touch storage;
// referential and uniqueness checks belong to the service layer.
//
// Semantics shared by all validators:
//   - Checks for a single field short-circuit: only the first failing rule
//     per field is reported.
//   - Across fields nothing short-circuits: all problems are accumulated so
//     a client can fix everything in one round-trip.
//   - The error list is local to the call. Validators hold no state, so the
//     same function can be invoked concurrently without cross-request
//     leakage.
//   - Sanitization trims strings and parses integers; lengths are measured
//     in runes.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/tbourn/go-posts-backend/internal/apierr"
)

// Machine-readable reason codes attached to field errors.
const (
	CodeRequired     = "REQUIRED"
	CodeInvalidType  = "INVALID_TYPE"
	CodeEmptyValue   = "EMPTY_VALUE"
	CodeMaxLength    = "MAX_LENGTH"
	CodeInvalidValue = "INVALID_VALUE"
	CodeInvalidURL   = "INVALID_URL"
	CodeMaxValue     = "MAX_VALUE"
)

// FieldRoot is the pseudo-field used when the payload as a whole is
// malformed (e.g., the body is not a JSON object).
const FieldRoot = "root"

// Result is the outcome of one validation call: a tagged union of a typed
// DTO and a list of field errors. Exactly one variant is meaningful at a
// time; Data must only be read when OK is true, and Errors is non-empty
// exactly when OK is false.
type Result[T any] struct {
	OK     bool
	Data   T
	Errors []apierr.FieldError
}

// success wraps a sanitized DTO into a passing Result.
func success[T any](data T) Result[T] {
	return Result[T]{OK: true, Data: data}
}

// failure wraps the accumulated field errors into a failing Result.
func failure[T any](errs []apierr.FieldError) Result[T] {
	return Result[T]{OK: false, Errors: errs}
}

// fieldErr aliases the shared field error shape to keep rule signatures
// compact.
type fieldErr = apierr.FieldError

// fieldError is a small constructor keeping call sites compact.
func fieldError(field, code, message string) apierr.FieldError {
	return apierr.FieldError{Field: field, Message: message, Code: code}
}

// isFalsy reports whether a decoded JSON value counts as "absent" for a
// required field: null, empty string, zero number, or false.
func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	}
	return false
}

// fieldValue looks up a body field, treating an explicit null the same as a
// missing key for optional fields. The second return reports presence.
func fieldValue(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// asString returns the value as a string when it is one.
func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asInt returns the value as an int when it is an integral number. JSON
// decoding yields float64, so values with a fractional part are rejected;
// native int kinds are accepted for convenience in-process.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return int(n), true
		}
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

// runeLen measures string length the way the API documents it: in runes.
func runeLen(s string) int { return utf8.RuneCountInString(s) }

// trim removes surrounding whitespace.
func trim(s string) string { return strings.TrimSpace(s) }
