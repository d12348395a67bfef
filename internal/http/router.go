// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns
// such as tracing, correlation IDs, logging, panic recovery, metrics,
// compression, CORS, security headers, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Every failure serialized through the error taxonomy envelope
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/apierr"
	"github.com/tbourn/go-posts-backend/internal/config"
	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/http/handlers"
	"github.com/tbourn/go-posts-backend/internal/http/middleware"
	"github.com/tbourn/go-posts-backend/internal/repo"
	"github.com/tbourn/go-posts-backend/internal/services"
)

// postRepoShim adapts the repository free functions to the
// services.PostRepo interface expected by PostService. This keeps services
// decoupled from the concrete repo package while reusing its functions.
type postRepoShim struct{}

// CreatePost proxies repo.CreatePost.
func (postRepoShim) CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return repo.CreatePost(ctx, db, p)
}

// GetPost proxies repo.GetPost.
func (postRepoShim) GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error) {
	return repo.GetPost(ctx, db, id)
}

// GetPostBySlug proxies repo.GetPostBySlug.
func (postRepoShim) GetPostBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Post, error) {
	return repo.GetPostBySlug(ctx, db, slug)
}

// CountPosts proxies repo.CountPosts (pagination support).
func (postRepoShim) CountPosts(ctx context.Context, db *gorm.DB, f repo.PostFilter) (int64, error) {
	return repo.CountPosts(ctx, db, f)
}

// ListPostsPage proxies repo.ListPostsPage (pagination support).
func (postRepoShim) ListPostsPage(ctx context.Context, db *gorm.DB, f repo.PostFilter, offset, limit int) ([]domain.Post, error) {
	return repo.ListPostsPage(ctx, db, f, offset, limit)
}

// UpdatePost proxies repo.UpdatePost.
func (postRepoShim) UpdatePost(ctx context.Context, db *gorm.DB, id uint, cols map[string]any) error {
	return repo.UpdatePost(ctx, db, id, cols)
}

// ReplacePostTags proxies repo.ReplacePostTags.
func (postRepoShim) ReplacePostTags(ctx context.Context, db *gorm.DB, p *domain.Post, tags []domain.Tag) error {
	return repo.ReplacePostTags(ctx, db, p, tags)
}

// DeletePost proxies repo.DeletePost.
func (postRepoShim) DeletePost(ctx context.Context, db *gorm.DB, id uint) error {
	return repo.DeletePost(ctx, db, id)
}

// SlugExists proxies repo.SlugExists.
func (postRepoShim) SlugExists(ctx context.Context, db *gorm.DB, slug string, excludeID uint) (bool, error) {
	return repo.SlugExists(ctx, db, slug, excludeID)
}

// CategoryExists proxies repo.CategoryExists.
func (postRepoShim) CategoryExists(ctx context.Context, db *gorm.DB, id int) (bool, error) {
	return repo.CategoryExists(ctx, db, id)
}

// TagsByIDs proxies repo.TagsByIDs.
func (postRepoShim) TagsByIDs(ctx context.Context, db *gorm.DB, ids []int) ([]domain.Tag, error) {
	return repo.TagsByIDs(ctx, db, ids)
}

// AuthorExists proxies repo.AuthorExists.
func (postRepoShim) AuthorExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return repo.AuthorExists(ctx, db, id)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given
// Gin engine, then mounts the versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured request logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per author/IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to the JSON envelope
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress JSON responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per author/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByAuthorOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Author-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallback: unmatched routes leave through the taxonomy too.
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, apierr.NewNotFound("Route"))
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db
	postSvc := services.NewPostService(db, postRepoShim{})
	catSvc := &services.CatalogService{DB: db}
	h := handlers.New(postSvc, catSvc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v1"
	{
		// Posts
		api.POST("/posts", h.CreatePost)
		api.GET("/posts", h.ListPosts)
		api.GET("/posts/:id", h.GetPost)
		api.GET("/posts/slug/:slug", h.GetPostBySlug)
		api.PUT("/posts/:id", h.UpdatePost)
		api.DELETE("/posts/:id", h.DeletePost)

		// Catalog
		api.GET("/categories", h.ListCategories)
		api.GET("/tags", h.ListTags)
	}
}

// limitBody returns a Gin middleware that caps the request body size for
// all endpoints using http.MaxBytesReader. Requests exceeding the cap will
// cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
