// Post HTTP handlers.
//
// This file exposes REST endpoints for post resources:
//   - POST   /posts            (create)
//   - GET    /posts            (list, paginated, filtered, ETag support)
//   - GET    /posts/{id}       (read)
//   - GET    /posts/slug/{slug} (read by slug)
//   - PUT    /posts/{id}       (partial update)
//   - DELETE /posts/{id}       (delete)
//
// Handlers are transport-thin: they run the field-level validators, call
// application services, and translate results into HTTP responses. Every
// failure leaves through the apierr envelope.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/apierr"
	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/repo"
	"github.com/tbourn/go-posts-backend/internal/services"
	"github.com/tbourn/go-posts-backend/internal/utils"
	"github.com/tbourn/go-posts-backend/internal/validation"
)

//
// Service contracts (context-aware)
//

// PostService defines post lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PostService interface {
	// Create persists a new post authored by authorID.
	Create(ctx context.Context, authorID string, in validation.CreatePostInput) (*domain.Post, error)
	// Get fetches a post by ID.
	Get(ctx context.Context, id uint) (*domain.Post, error)
	// GetBySlug fetches a post by slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	// List returns a page of posts and the total count.
	List(ctx context.Context, q validation.ListPostsQuery) ([]domain.Post, int64, error)
	// Update applies a partial update to a post.
	Update(ctx context.Context, id uint, in validation.UpdatePostInput) (*domain.Post, error)
	// Delete removes a post.
	Delete(ctx context.Context, id uint) error
}

// CatalogService lists the reference entities posts point at.
type CatalogService interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Tags(ctx context.Context) ([]domain.Tag, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for posts, categories, and tags. It
// depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	postSvc PostService
	catSvc  CatalogService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(postSvc PostService, catSvc CatalogService) *Handlers {
	return &Handlers{postSvc: postSvc, catSvc: catSvc}
}

// authorID extracts the authenticated author id from Gin context (set by
// upstream middleware). If absent, it falls back to "X-Author-ID" header
// (tests use it), and finally to "demo-author". It never touches c.Request
// if it's nil.
func authorID(c *gin.Context) string {
	if v, ok := c.Get("authorID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-Author-ID")); h != "" {
			return h
		}
	}
	return "demo-author"
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListPostsResponse wraps a page of posts and pagination information.
type ListPostsResponse struct {
	Posts      []domain.Post `json:"posts"`
	Pagination Pagination    `json:"pagination"`
}

//
// Helpers
//

// bindObject decodes the request body into a generic JSON object, reporting
// a root-level validation error when the payload is not an object.
func bindObject(c *gin.Context) (map[string]any, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		fail(c, apierr.NewValidation([]apierr.FieldError{{
			Field:   validation.FieldRoot,
			Message: "request body must be a JSON object",
			Code:    validation.CodeInvalidType,
		}}))
		return nil, false
	}
	return raw, true
}

// pathID parses the :id path parameter, reporting a field-level validation
// error when it is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		fail(c, apierr.NewValidation([]apierr.FieldError{{
			Field:   "id",
			Message: "id must be a positive integer",
			Code:    validation.CodeInvalidValue,
		}}))
		return 0, false
	}
	return uint(id), true
}

//
// Handlers
//

// CreatePost godoc
// @ID          createPost
// @Summary     Create a new post
// @Description Validates the payload field by field and persists the post with its relations.
// @Tags        Posts
// @Accept      json
// @Produce     json
//
// @Param       X-Author-ID  header  string  false "Author ID (demo header)"  example(d2c7e9a4-9f4e-4f7e-9b88-6f3a0a1c2b3d)
// @Param       body         body    map[string]any  true  "Create post payload"
//
// @Success     201  {object}  domain.Post
// @Failure     400  {object}  apierr.Response  "Validation or reference error"
// @Failure     409  {object}  apierr.Response  "Duplicate slug"
// @Failure     500  {object}  apierr.Response  "Internal error"
// @Router      /posts [post]
func (h *Handlers) CreatePost(c *gin.Context) {
	raw, okBody := bindObject(c)
	if !okBody {
		return
	}
	res := validation.ValidateCreatePost(raw)
	if !res.OK {
		fail(c, apierr.NewValidation(res.Errors))
		return
	}

	p, err := h.postSvc.Create(c.Request.Context(), authorID(c), res.Data)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, p)
}

// GetPost godoc
// @ID          getPost
// @Summary     Fetch a post by ID
// @Tags        Posts
// @Produce     json
//
// @Param       id  path  int  true  "Post ID"  minimum(1)
//
// @Success     200  {object}  domain.Post
// @Failure     400  {object}  apierr.Response  "Bad id"
// @Failure     404  {object}  apierr.Response  "Post not found"
// @Failure     500  {object}  apierr.Response  "Internal error"
// @Router      /posts/{id} [get]
func (h *Handlers) GetPost(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	p, err := h.postSvc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// GetPostBySlug godoc
// @ID          getPostBySlug
// @Summary     Fetch a post by slug
// @Tags        Posts
// @Produce     json
//
// @Param       slug  path  string  true  "Post slug"  example(hello-world)
//
// @Success     200  {object}  domain.Post
// @Failure     404  {object}  apierr.Response  "Post not found"
// @Failure     500  {object}  apierr.Response  "Internal error"
// @Router      /posts/slug/{slug} [get]
func (h *Handlers) GetPostBySlug(c *gin.Context) {
	p, err := h.postSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// ListPosts godoc
// @ID          listPosts
// @Summary     List posts (paginated, filtered)
// @Description Returns a page of posts. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Posts
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       limit          query   int     false "Items per page"  minimum(1) maximum(100) default(10)
// @Param       categoryId     query   int     false "Filter by category"
// @Param       tagIds         query   string  false "Comma-separated tag ids"  example(1,2,3)
// @Param       authorId       query   string  false "Filter by author"
// @Param       search         query   string  false "Match against title/description"
// @Param       sortBy         query   string  false "publishedAt|createdAt|title"
// @Param       sortOrder      query   string  false "asc|desc"
//
// @Success     200  {object} handlers.ListPostsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} apierr.Response "Bad query"
// @Failure     500  {object} apierr.Response "Internal error"
// @Router      /posts [get]
func (h *Handlers) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()

	res := validation.ValidateListPostsQuery(c.Request.URL.Query())
	if !res.OK {
		fail(c, apierr.NewValidation(res.Errors))
		return
	}
	q := res.Data

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okSvc := h.postSvc.(*services.PostService); okSvc {
		db = svc.DB
	}
	if db != nil {
		f := repo.PostFilter{
			CategoryID: q.CategoryID,
			TagIDs:     q.TagIDs,
			AuthorID:   q.AuthorID,
			Search:     q.Search,
		}
		count, maxTS, err := repo.PostsStats(ctx, db, f)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"posts:%d:%d:%d:%d"`, q.Page, q.Limit, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	// Fetch page.
	items, total, err := h.postSvc.List(ctx, q)
	if err != nil {
		fail(c, err)
		return
	}

	totalPages := utils.TotalPages(total, q.Limit)
	resp := ListPostsResponse{
		Posts: items,
		Pagination: Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    q.Page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// UpdatePost godoc
// @ID          updatePost
// @Summary     Update a post
// @Description Applies a partial update; only the provided fields change.
// @Tags        Posts
// @Accept      json
// @Produce     json
//
// @Param       id    path  int             true  "Post ID"  minimum(1)
// @Param       body  body  map[string]any  true  "Fields to update"
//
// @Success     200  {object}  domain.Post
// @Failure     400  {object}  apierr.Response  "Validation or reference error"
// @Failure     404  {object}  apierr.Response  "Post not found"
// @Failure     409  {object}  apierr.Response  "Duplicate slug"
// @Failure     500  {object}  apierr.Response  "Internal error"
// @Router      /posts/{id} [put]
func (h *Handlers) UpdatePost(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	raw, okBody := bindObject(c)
	if !okBody {
		return
	}
	res := validation.ValidateUpdatePost(raw)
	if !res.OK {
		fail(c, apierr.NewValidation(res.Errors))
		return
	}

	p, err := h.postSvc.Update(c.Request.Context(), id, res.Data)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// DeletePost godoc
// @ID          deletePost
// @Summary     Delete a post
// @Tags        Posts
// @Produce     json
//
// @Param       id  path  int  true  "Post ID"  minimum(1)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} apierr.Response "Bad id"
// @Failure     404  {object} apierr.Response "Post not found"
// @Failure     500  {object} apierr.Response "Internal error"
// @Router      /posts/{id} [delete]
func (h *Handlers) DeletePost(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.postSvc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
