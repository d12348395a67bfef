// Package services defines the business logic for posts. This file
// centralizes the translation of raw persistence failures into the API
// error taxonomy so that service methods return typed errors consistently.
//
// Handlers never see gorm errors: everything leaving this package is either
// a *apierr.Error or has been wrapped into one by translateDBError.
package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/apierr"
)

// translateDBError maps a gorm/database error onto the taxonomy:
//   - record-not-found     -> 404 NOT_FOUND for the given resource
//   - unique slug violation-> 409 DUPLICATE_SLUG (slug carries the value)
//   - FK violation         -> 400 FOREIGN_KEY_CONSTRAINT (generic field,
//     reached only when a pre-check raced with a concurrent delete)
//   - anything else        -> 500 DATABASE_ERROR retaining the cause
//
// The string sniffing mirrors the messages emitted by the pure-Go SQLite
// driver; the pre-flight existence checks in PostService make these paths
// rare.
func translateDBError(err error, resource, slug string) *apierr.Error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierr.NewNotFound(resource)
	case strings.Contains(err.Error(), "UNIQUE constraint failed: posts.slug"):
		return apierr.NewDuplicateSlug(slug)
	case strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return apierr.NewForeignKey("reference", "unknown")
	default:
		return apierr.NewDatabase(err)
	}
}
