// Reference lookups for categories, tags, and authors.
//
// The service layer uses these to pre-check foreign keys before writing a
// post, so a dangling categoryId or tagIds entry surfaces as a structured
// FOREIGN_KEY_CONSTRAINT error instead of a raw DB constraint violation.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/domain"
)

// CategoryExists reports whether a category with the given id exists.
func CategoryExists(ctx context.Context, db *gorm.DB, id int) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// ListCategories returns all categories ordered by name.
func ListCategories(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var out []domain.Category
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// TagsByIDs returns the tags matching ids. Missing ids are simply not in
// the result; callers compare lengths to detect dangling references.
func TagsByIDs(ctx context.Context, db *gorm.DB, ids []int) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	var out []domain.Tag
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// ListTags returns all tags ordered by name.
func ListTags(ctx context.Context, db *gorm.DB) ([]domain.Tag, error) {
	var out []domain.Tag
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// AuthorExists reports whether an author with the given id exists.
func AuthorExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Author{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
