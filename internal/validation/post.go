// Post body validators.
//
// ValidateCreatePost and ValidateUpdatePost share the same field rules and
// differ only in which fields are required and in how an all-invalid tagIds
// array is assigned (create omits the field, update assigns the filtered,
// possibly empty slice). Fields are processed in a fixed order: title,
// content, categoryId, description, coverImageUrl, tagIds, readTime.
package validation

import (
	"fmt"
	"net/url"
)

// Field length ceilings for post bodies.
const (
	maxTitleLen       = 255
	maxDescriptionLen = 500
	maxReadTimeLen    = 50
)

// CreatePostInput is the sanitized DTO produced by ValidateCreatePost.
// Optional fields are pointers so "not provided" survives into the service
// layer; TagIDs is nil when the field was absent or no valid id was given.
type CreatePostInput struct {
	Title         string
	Content       string
	CategoryID    int
	Description   *string
	CoverImageURL *string
	TagIDs        []int
	ReadTime      *string
}

// UpdatePostInput is the sanitized DTO produced by ValidateUpdatePost.
// Every field is optional; nil means "leave unchanged". TagIDs is non-nil
// whenever the field was present, even if no element survived filtering.
type UpdatePostInput struct {
	Title         *string
	Content       *string
	CategoryID    *int
	Description   *string
	CoverImageURL *string
	TagIDs        *[]int
	ReadTime      *string
}

// ValidateCreatePost validates a decoded JSON body for post creation.
// title, content and categoryId are required; the rest is optional.
func ValidateCreatePost(raw map[string]any) Result[CreatePostInput] {
	var (
		errs []fieldErr
		data CreatePostInput
	)

	if t, ok := requiredString(raw, "title", maxTitleLen, &errs); ok {
		data.Title = t
	}
	if c, ok := requiredString(raw, "content", 0, &errs); ok {
		data.Content = c
	}
	if id, ok := requiredPositiveInt(raw, "categoryId", &errs); ok {
		data.CategoryID = id
	}
	data.Description = optionalString(raw, "description", maxDescriptionLen, &errs)
	data.CoverImageURL = optionalURL(raw, "coverImageUrl", &errs)
	if ids, present, ok := tagIDsField(raw, &errs); present && ok && len(ids) > 0 {
		data.TagIDs = ids
	}
	data.ReadTime = optionalString(raw, "readTime", maxReadTimeLen, &errs)

	if len(errs) > 0 {
		return failure[CreatePostInput](errs)
	}
	return success(data)
}

// ValidateUpdatePost validates a decoded JSON body for a partial post
// update. All fields are optional; present fields obey the same rules as
// on create.
func ValidateUpdatePost(raw map[string]any) Result[UpdatePostInput] {
	var (
		errs []fieldErr
		data UpdatePostInput
	)

	if v, present := fieldValue(raw, "title"); present {
		if t, ok := stringRules("title", v, true, maxTitleLen, &errs); ok {
			data.Title = &t
		}
	}
	if v, present := fieldValue(raw, "content"); present {
		if c, ok := stringRules("content", v, true, 0, &errs); ok {
			data.Content = &c
		}
	}
	if v, present := fieldValue(raw, "categoryId"); present {
		if id, ok := positiveIntRules("categoryId", v, &errs); ok {
			data.CategoryID = &id
		}
	}
	data.Description = optionalString(raw, "description", maxDescriptionLen, &errs)
	data.CoverImageURL = optionalURL(raw, "coverImageUrl", &errs)
	if ids, present, ok := tagIDsField(raw, &errs); present && ok {
		data.TagIDs = &ids
	}
	data.ReadTime = optionalString(raw, "readTime", maxReadTimeLen, &errs)

	if len(errs) > 0 {
		return failure[UpdatePostInput](errs)
	}
	return success(data)
}

//
// Shared field rules
//

// requiredString enforces presence, string kind, non-emptiness after trim,
// and an optional rune-length ceiling. On success it returns the trimmed
// value.
func requiredString(raw map[string]any, field string, maxLen int, errs *[]fieldErr) (string, bool) {
	v, present := raw[field]
	if !present || isFalsy(v) {
		*errs = append(*errs, fieldError(field, CodeRequired, field+" is required"))
		return "", false
	}
	return stringRules(field, v, true, maxLen, errs)
}

// stringRules applies the string refinements in order: kind, non-empty
// after trim (when requireNonEmpty), then rune-length ceiling (when
// maxLen > 0). It returns the trimmed value on success.
func stringRules(field string, v any, requireNonEmpty bool, maxLen int, errs *[]fieldErr) (string, bool) {
	s, ok := asString(v)
	if !ok {
		*errs = append(*errs, fieldError(field, CodeInvalidType, field+" must be a string"))
		return "", false
	}
	t := trim(s)
	if requireNonEmpty && t == "" {
		*errs = append(*errs, fieldError(field, CodeEmptyValue, field+" must not be empty"))
		return "", false
	}
	if maxLen > 0 && runeLen(t) > maxLen {
		*errs = append(*errs, fieldError(field, CodeMaxLength,
			fmt.Sprintf("%s must be at most %d characters", field, maxLen)))
		return "", false
	}
	return t, true
}

// requiredPositiveInt enforces presence, integer kind, and positivity.
func requiredPositiveInt(raw map[string]any, field string, errs *[]fieldErr) (int, bool) {
	v, present := raw[field]
	if !present || isFalsy(v) {
		*errs = append(*errs, fieldError(field, CodeRequired, field+" is required"))
		return 0, false
	}
	return positiveIntRules(field, v, errs)
}

// positiveIntRules rejects non-integers with INVALID_TYPE and non-positive
// values with INVALID_VALUE.
func positiveIntRules(field string, v any, errs *[]fieldErr) (int, bool) {
	n, ok := asInt(v)
	if !ok {
		*errs = append(*errs, fieldError(field, CodeInvalidType, field+" must be an integer"))
		return 0, false
	}
	if n <= 0 {
		*errs = append(*errs, fieldError(field, CodeInvalidValue, field+" must be a positive integer"))
		return 0, false
	}
	return n, true
}

// optionalString validates an optional string field and returns a pointer
// to the trimmed value when it was present and valid, nil otherwise.
func optionalString(raw map[string]any, field string, maxLen int, errs *[]fieldErr) *string {
	v, present := fieldValue(raw, field)
	if !present {
		return nil
	}
	if s, ok := stringRules(field, v, false, maxLen, errs); ok {
		return &s
	}
	return nil
}

// optionalURL validates an optional URL-valued string field. Empty strings
// are accepted and treated as absent; non-empty values must parse as an
// absolute URL with a host.
func optionalURL(raw map[string]any, field string, errs *[]fieldErr) *string {
	v, present := fieldValue(raw, field)
	if !present {
		return nil
	}
	s, ok := stringRules(field, v, false, 0, errs)
	if !ok {
		return nil
	}
	if s == "" {
		return nil
	}
	if u, err := url.Parse(s); err != nil || u.Scheme == "" || u.Host == "" {
		*errs = append(*errs, fieldError(field, CodeInvalidURL, field+" must be a valid URL"))
		return nil
	}
	return &s
}

// tagIDsField validates the tagIds body field.
//
// Every element must be a positive integer. Valid elements are kept and
// invalid ones dropped; per-index errors (tagIds[i]) are recorded only when
// a non-empty array yields zero valid elements, matching the historical
// behavior of the API. Returns (filtered, fieldWasPresent, wellTyped).
func tagIDsField(raw map[string]any, errs *[]fieldErr) ([]int, bool, bool) {
	v, present := fieldValue(raw, "tagIds")
	if !present {
		return nil, false, false
	}
	arr, ok := v.([]any)
	if !ok {
		*errs = append(*errs, fieldError("tagIds", CodeInvalidType, "tagIds must be an array"))
		return nil, true, false
	}

	valid := make([]int, 0, len(arr))
	var elemErrs []fieldErr
	for i, el := range arr {
		if n, ok := asInt(el); ok && n > 0 {
			valid = append(valid, n)
			continue
		}
		elemErrs = append(elemErrs, fieldError(
			fmt.Sprintf("tagIds[%d]", i), CodeInvalidValue,
			fmt.Sprintf("tagIds[%d] must be a positive integer", i)))
	}
	if len(valid) == 0 && len(arr) > 0 {
		*errs = append(*errs, elemErrs...)
	}
	return valid, true, true
}
