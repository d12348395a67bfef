// Package services – PostService
//
// This file implements the PostService, which orchestrates post lifecycle
// operations on top of the repository layer. It derives slugs from titles,
// pre-checks foreign keys (author, category, tags) so dangling references
// surface as structured errors, translates slug collisions into conflicts,
// and coordinates tag association updates.
//
// All failure paths return *apierr.Error values so handlers can serialize
// them without inspecting gorm internals.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/apierr"
	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/repo"
	"github.com/tbourn/go-posts-backend/internal/utils"
	"github.com/tbourn/go-posts-backend/internal/validation"
)

// PostRepo defines the repository contract required by PostService.
// Implementations are responsible for persistence of post aggregates and
// the reference lookups used for pre-flight checks.
type PostRepo interface {
	// CreatePost inserts a new post row with its tag associations.
	CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error

	// GetPost fetches a post by ID with tags preloaded.
	GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error)

	// GetPostBySlug fetches a post by slug with tags preloaded.
	GetPostBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Post, error)

	// CountPosts returns the total matching a filter (pagination support).
	CountPosts(ctx context.Context, db *gorm.DB, f repo.PostFilter) (int64, error)

	// ListPostsPage returns a page of posts matching a filter.
	ListPostsPage(ctx context.Context, db *gorm.DB, f repo.PostFilter, offset, limit int) ([]domain.Post, error)

	// UpdatePost applies a column map to a post.
	UpdatePost(ctx context.Context, db *gorm.DB, id uint, cols map[string]any) error

	// ReplacePostTags replaces a post's tag set.
	ReplacePostTags(ctx context.Context, db *gorm.DB, p *domain.Post, tags []domain.Tag) error

	// DeletePost soft-deletes a post.
	DeletePost(ctx context.Context, db *gorm.DB, id uint) error

	// SlugExists reports whether another post already uses a slug.
	SlugExists(ctx context.Context, db *gorm.DB, slug string, excludeID uint) (bool, error)

	// CategoryExists reports whether a category id exists.
	CategoryExists(ctx context.Context, db *gorm.DB, id int) (bool, error)

	// TagsByIDs resolves tag ids to rows; missing ids are absent.
	TagsByIDs(ctx context.Context, db *gorm.DB, ids []int) ([]domain.Tag, error)

	// AuthorExists reports whether an author id exists.
	AuthorExists(ctx context.Context, db *gorm.DB, id string) (bool, error)
}

// PostService provides post-level operations: create, read, list, update,
// delete. It owns the slug derivation and the referential pre-checks that
// shape the API's error surface.
type PostService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the post repository used by this service.
	Repo PostRepo
}

// NewPostService constructs a PostService.
func NewPostService(db *gorm.DB, r PostRepo) *PostService {
	return &PostService{DB: db, Repo: r}
}

// Create persists a new post authored by authorID from a validated input.
// The slug is derived from the title; a collision yields DUPLICATE_SLUG,
// and dangling author/category/tag references yield FOREIGN_KEY_CONSTRAINT.
func (s *PostService) Create(ctx context.Context, authorID string, in validation.CreatePostInput) (*domain.Post, error) {
	if err := s.checkAuthor(ctx, authorID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	slug := derivedSlug(in.Title)
	taken, err := s.Repo.SlugExists(ctx, s.DB, slug, 0)
	if err != nil {
		return nil, apierr.NewDatabase(err)
	}
	if taken {
		return nil, apierr.NewDuplicateSlug(slug)
	}

	now := time.Now().UTC()
	p := &domain.Post{
		Title:         in.Title,
		Slug:          slug,
		Content:       in.Content,
		Description:   in.Description,
		CoverImageURL: in.CoverImageURL,
		ReadTime:      in.ReadTime,
		AuthorID:      authorID,
		CategoryID:    uint(in.CategoryID),
		PublishedAt:   &now,
		Tags:          tags,
	}
	if err := s.Repo.CreatePost(ctx, s.DB, p); err != nil {
		return nil, translateDBError(err, "Post", slug)
	}
	return p, nil
}

// Get fetches a post by ID.
func (s *PostService) Get(ctx context.Context, id uint) (*domain.Post, error) {
	p, err := s.Repo.GetPost(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NewNotFound("Post", id)
		}
		return nil, apierr.NewDatabase(err)
	}
	return p, nil
}

// GetBySlug fetches a post by its slug.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	p, err := s.Repo.GetPostBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NewNotFound("Post", slug)
		}
		return nil, apierr.NewDatabase(err)
	}
	return p, nil
}

// List returns a page of posts for a validated query plus the total count.
func (s *PostService) List(ctx context.Context, q validation.ListPostsQuery) ([]domain.Post, int64, error) {
	f := filterFromQuery(q)

	total, err := s.Repo.CountPosts(ctx, s.DB, f)
	if err != nil {
		return nil, 0, apierr.NewDatabase(err)
	}
	if total == 0 {
		return []domain.Post{}, 0, nil
	}

	items, err := s.Repo.ListPostsPage(ctx, s.DB, f, utils.Offset(q.Page, q.Limit), q.Limit)
	if err != nil {
		return nil, 0, apierr.NewDatabase(err)
	}
	return items, total, nil
}

// Update applies a validated partial update to a post. When the title
// changes the slug is re-derived and checked for collisions; when tagIds is
// present the tag set is replaced wholesale.
func (s *PostService) Update(ctx context.Context, id uint, in validation.UpdatePostInput) (*domain.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cols := map[string]any{}
	slug := p.Slug
	if in.Title != nil {
		slug = derivedSlug(*in.Title)
		taken, err := s.Repo.SlugExists(ctx, s.DB, slug, id)
		if err != nil {
			return nil, apierr.NewDatabase(err)
		}
		if taken {
			return nil, apierr.NewDuplicateSlug(slug)
		}
		cols["title"] = *in.Title
		cols["slug"] = slug
	}
	if in.Content != nil {
		cols["content"] = *in.Content
	}
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		cols["category_id"] = uint(*in.CategoryID)
	}
	if in.Description != nil {
		cols["description"] = *in.Description
	}
	if in.CoverImageURL != nil {
		cols["cover_image_url"] = *in.CoverImageURL
	}
	if in.ReadTime != nil {
		cols["read_time"] = *in.ReadTime
	}

	if err := s.Repo.UpdatePost(ctx, s.DB, id, cols); err != nil {
		return nil, translateDBError(err, "Post", slug)
	}

	if in.TagIDs != nil {
		tags, err := s.resolveTags(ctx, *in.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.Repo.ReplacePostTags(ctx, s.DB, p, tags); err != nil {
			return nil, apierr.NewDatabase(err)
		}
	}

	return s.Get(ctx, id)
}

// Delete soft-deletes a post by ID.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeletePost(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NewNotFound("Post", id)
		}
		return apierr.NewDatabase(err)
	}
	return nil
}

// checkAuthor verifies the author reference.
func (s *PostService) checkAuthor(ctx context.Context, id string) error {
	ok, err := s.Repo.AuthorExists(ctx, s.DB, id)
	if err != nil {
		return apierr.NewDatabase(err)
	}
	if !ok {
		return apierr.NewForeignKey("authorId", id)
	}
	return nil
}

// checkCategory verifies the category reference.
func (s *PostService) checkCategory(ctx context.Context, id int) error {
	ok, err := s.Repo.CategoryExists(ctx, s.DB, id)
	if err != nil {
		return apierr.NewDatabase(err)
	}
	if !ok {
		return apierr.NewForeignKey("categoryId", id)
	}
	return nil
}

// resolveTags loads the referenced tags and fails with a FK error naming
// the first missing id.
func (s *PostService) resolveTags(ctx context.Context, ids []int) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.Repo.TagsByIDs(ctx, s.DB, ids)
	if err != nil {
		return nil, apierr.NewDatabase(err)
	}
	if len(tags) != len(uniqueInts(ids)) {
		found := make(map[int]struct{}, len(tags))
		for _, t := range tags {
			found[int(t.ID)] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return nil, apierr.NewForeignKey("tagIds", id)
			}
		}
	}
	return tags, nil
}

// filterFromQuery maps the validated list query onto the repo filter.
func filterFromQuery(q validation.ListPostsQuery) repo.PostFilter {
	return repo.PostFilter{
		CategoryID: q.CategoryID,
		TagIDs:     q.TagIDs,
		AuthorID:   q.AuthorID,
		Search:     q.Search,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
	}
}

// derivedSlug slugifies a title, falling back to a fixed stem when the
// title contains no slug-safe characters.
func derivedSlug(title string) string {
	if s := utils.Slugify(title); s != "" {
		return s
	}
	return "post"
}

// uniqueInts returns ids with duplicates removed, order preserved.
func uniqueInts(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
