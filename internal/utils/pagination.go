// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

// Offset converts a 1-based page and a page size into a row offset.
// Non-positive inputs are clamped so the result is never negative.
//
// Example:
//
//	utils.Offset(1, 20) // 0
//	utils.Offset(3, 10) // 20
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return (page - 1) * pageSize
}

// TotalPages returns the number of pages needed to hold total items at
// pageSize items per page. A non-positive pageSize yields 0.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
