// Package services – CatalogService
//
// Read-only listings of the reference entities posts point at. Kept apart
// from PostService so the post lifecycle contract stays narrow.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/apierr"
	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/repo"
)

// CatalogService lists categories and tags.
type CatalogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Categories returns all categories ordered by name.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	out, err := repo.ListCategories(ctx, s.DB)
	if err != nil {
		return nil, apierr.NewDatabase(err)
	}
	return out, nil
}

// Tags returns all tags ordered by name.
func (s *CatalogService) Tags(ctx context.Context) ([]domain.Tag, error) {
	out, err := repo.ListTags(ctx, s.DB)
	if err != nil {
		return nil, apierr.NewDatabase(err)
	}
	return out, nil
}
