// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Post
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a post is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated; translation into the API error
//     taxonomy happens in the services package.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// PostFilter narrows list/count queries. Zero values mean "no constraint".
// SortBy/SortOrder are mapped through a whitelist; anything else falls back
// to published_at desc.
type PostFilter struct {
	CategoryID *int
	TagIDs     []int
	AuthorID   string
	Search     string
	SortBy     string // publishedAt | createdAt | title
	SortOrder  string // asc | desc
}

// sortColumns whitelists the API sort keys against real columns.
var sortColumns = map[string]string{
	"publishedAt": "posts.published_at",
	"createdAt":   "posts.created_at",
	"title":       "posts.title",
}

// applyPostFilter composes the WHERE clauses shared by CountPosts and
// ListPostsPage.
func applyPostFilter(q *gorm.DB, f PostFilter) *gorm.DB {
	if f.CategoryID != nil {
		q = q.Where("posts.category_id = ?", *f.CategoryID)
	}
	if f.AuthorID != "" {
		q = q.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("posts.title LIKE ? OR posts.description LIKE ?", like, like)
	}
	if len(f.TagIDs) > 0 {
		q = q.Joins("JOIN post_tags pt ON pt.post_id = posts.id").
			Where("pt.tag_id IN ?", f.TagIDs).
			Distinct()
	}
	return q
}

// orderClause maps the validated sort key/direction to a SQL ORDER BY.
func orderClause(f PostFilter) string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "posts.published_at"
	}
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}

// CreatePost inserts a new post row together with its tag associations.
// The caller is responsible for populating Slug and foreign keys; the DB
// unique and FK constraints are the last line of defense.
func CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return db.WithContext(ctx).Create(p).Error
}

// GetPost fetches a single post by ID with its tags preloaded. Returns
// ErrNotFound when the row does not exist.
func GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error) {
	var p domain.Post
	err := db.WithContext(ctx).
		Preload("Tags").
		First(&p, "posts.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPostBySlug fetches a single post by its slug with tags preloaded.
// Returns ErrNotFound when the row does not exist.
func GetPostBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Post, error) {
	var p domain.Post
	err := db.WithContext(ctx).
		Preload("Tags").
		First(&p, "posts.slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPosts returns the number of posts matching the filter.
func CountPosts(ctx context.Context, db *gorm.DB, f PostFilter) (int64, error) {
	var total int64
	q := applyPostFilter(db.WithContext(ctx).Model(&domain.Post{}), f)
	err := q.Count(&total).Error
	return total, err
}

// ListPostsPage returns a page of posts matching the filter, ordered by the
// filter's sort key. Use CountPosts to obtain the total for pagination
// metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*limit).
func ListPostsPage(ctx context.Context, db *gorm.DB, f PostFilter, offset, limit int) ([]domain.Post, error) {
	var out []domain.Post
	q := applyPostFilter(db.WithContext(ctx).Model(&domain.Post{}), f)
	err := q.
		Preload("Tags").
		Order(orderClause(f)).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdatePost applies a column map to the post identified by id. If no rows
// are affected (post missing), it returns ErrNotFound. Tag associations are
// updated separately via ReplacePostTags.
func UpdatePost(ctx context.Context, db *gorm.DB, id uint, cols map[string]any) error {
	if len(cols) == 0 {
		return nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplacePostTags replaces the post's tag set with the given tags.
func ReplacePostTags(ctx context.Context, db *gorm.DB, p *domain.Post, tags []domain.Tag) error {
	return db.WithContext(ctx).Model(p).Association("Tags").Replace(tags)
}

// DeletePost soft-deletes the post identified by id. Returns ErrNotFound
// when the post does not exist.
func DeletePost(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SlugExists reports whether another post already uses slug. excludeID
// carries the post being updated (0 on create) so a post can keep its own
// slug.
func SlugExists(ctx context.Context, db *gorm.DB, slug string, excludeID uint) (bool, error) {
	var n int64
	q := db.WithContext(ctx).Model(&domain.Post{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
