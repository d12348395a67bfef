// List-query validator.
//
// Query parameters arrive as strings, so unlike the body validators this
// one coerces numeric values. Blank parameters (empty or whitespace-only)
// are treated as absent and fall back to defaults where one exists. Fields
// are processed in a fixed order: page, limit, categoryId, tagIds, authorId,
// search, sortBy, sortOrder.
package validation

import (
	"net/url"
	"strconv"
	"strings"
)

// List-query bounds and defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	maxSearchLen = 255
)

// Allowed sort columns and directions.
var (
	allowedSortBy    = []string{"publishedAt", "createdAt", "title"}
	allowedSortOrder = []string{"asc", "desc"}
)

// ListPostsQuery is the sanitized DTO produced by ValidateListPostsQuery.
// Page, Limit, SortBy and SortOrder always carry a value (defaults applied);
// the remaining filters are zero-valued when absent.
type ListPostsQuery struct {
	Page       int
	Limit      int
	CategoryID *int
	TagIDs     []int
	AuthorID   string
	Search     string
	SortBy     string
	SortOrder  string
}

// ValidateListPostsQuery validates and coerces the query string of a list
// request.
func ValidateListPostsQuery(q url.Values) Result[ListPostsQuery] {
	var errs []fieldErr
	data := ListPostsQuery{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    "publishedAt",
		SortOrder: "desc",
	}

	if raw := trim(q.Get("page")); raw != "" {
		if n, ok := coercedInt("page", raw, &errs); ok {
			if n < 1 {
				errs = append(errs, fieldError("page", CodeInvalidValue, "page must be at least 1"))
			} else {
				data.Page = n
			}
		}
	}
	if raw := trim(q.Get("limit")); raw != "" {
		if n, ok := coercedInt("limit", raw, &errs); ok {
			switch {
			case n < 1:
				errs = append(errs, fieldError("limit", CodeInvalidValue, "limit must be at least 1"))
			case n > MaxLimit:
				errs = append(errs, fieldError("limit", CodeMaxValue, "limit must be at most 100"))
			default:
				data.Limit = n
			}
		}
	}
	if raw := trim(q.Get("categoryId")); raw != "" {
		if n, ok := coercedInt("categoryId", raw, &errs); ok {
			if n < 1 {
				errs = append(errs, fieldError("categoryId", CodeInvalidValue, "categoryId must be at least 1"))
			} else {
				data.CategoryID = &n
			}
		}
	}
	if raw := trim(q.Get("tagIds")); raw != "" {
		if ids := parseIDList(raw); len(ids) > 0 {
			data.TagIDs = ids
		} else {
			errs = append(errs, fieldError("tagIds", CodeInvalidValue,
				"tagIds must be a comma-separated list of integers"))
		}
	}
	if raw := trim(q.Get("authorId")); raw != "" {
		data.AuthorID = raw
	}
	if raw := trim(q.Get("search")); raw != "" {
		if runeLen(raw) > maxSearchLen {
			errs = append(errs, fieldError("search", CodeMaxLength, "search must be at most 255 characters"))
		} else {
			data.Search = raw
		}
	}
	if raw := trim(q.Get("sortBy")); raw != "" {
		if inSet(raw, allowedSortBy) {
			data.SortBy = raw
		} else {
			errs = append(errs, fieldError("sortBy", CodeInvalidValue,
				"sortBy must be one of: publishedAt, createdAt, title"))
		}
	}
	if raw := trim(q.Get("sortOrder")); raw != "" {
		if inSet(raw, allowedSortOrder) {
			data.SortOrder = raw
		} else {
			errs = append(errs, fieldError("sortOrder", CodeInvalidValue, "sortOrder must be asc or desc"))
		}
	}

	if len(errs) > 0 {
		return failure[ListPostsQuery](errs)
	}
	return success(data)
}

// coercedInt parses a query parameter as an integer, recording INVALID_TYPE
// when it does not parse.
func coercedInt(field, raw string, errs *[]fieldErr) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fieldError(field, CodeInvalidType, field+" must be an integer"))
		return 0, false
	}
	return n, true
}

// parseIDList splits a comma-separated string, trims each token, and keeps
// the ones that parse as integers. Non-numeric tokens are silently dropped;
// the caller decides whether an empty result is an error.
func parseIDList(raw string) []int {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// inSet reports whether s is one of the allowed values.
func inSet(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
