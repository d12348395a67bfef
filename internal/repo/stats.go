// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/domain"
)

// PostsStats returns aggregate metadata for the posts matching a filter:
// the total number of rows and the maximum UpdatedAt timestamp among them.
//
// It executes two lightweight queries. When nothing matches, the returned
// count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total posts matching the filter
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func PostsStats(ctx context.Context, db *gorm.DB, f PostFilter) (count int64, maxUpdatedAt *time.Time, err error) {
	q := applyPostFilter(db.WithContext(ctx).Model(&domain.Post{}), f)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("posts.updated_at").Order("posts.updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
