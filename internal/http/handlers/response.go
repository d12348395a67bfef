// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints. Every failure is normalized through the apierr taxonomy before
// serialization, so clients always receive the same envelope:
//
//	HTTP/1.1 409 Conflict
//	{
//	  "error": {
//	    "message": "A post with slug \"hello-world\" already exists",
//	    "code": "DUPLICATE_SLUG",
//	    "details": {"slug": ["Slug \"hello-world\" is already in use"]}
//	  }
//	}
//
// Conventions:
//   - fail() centralizes classification, logging, and formatting. Log level
//     follows the status: >=500 server fault (error), >=400 client fault
//     (warn), otherwise info. Logging is best-effort and never blocks the
//     response path.
//   - ok() and noContent() write success responses in a consistent shape:
//     201 create, 200 read/list/update, 204 delete (empty body).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-posts-backend/internal/apierr"
	"github.com/tbourn/go-posts-backend/internal/http/middleware"
)

// fail aborts the request with a structured error envelope.
//
// The error is classified first, so handlers may pass through anything a
// service returned. The response body is the apierr wire shape paired with
// the variant's HTTP status.
func fail(c *gin.Context, err error) {
	ae := apierr.Classify(err)

	lg := middleware.LoggerFrom(c)
	switch {
	case ae.Status >= http.StatusInternalServerError:
		lg.Error().
			Int("status", ae.Status).
			Str("code", ae.Code).
			Str("message", ae.Message).
			AnErr("cause", ae.Unwrap()).
			Msg("api error")
	case ae.Status >= http.StatusBadRequest:
		lg.Warn().
			Int("status", ae.Status).
			Str("code", ae.Code).
			Str("message", ae.Message).
			Msg("api error")
	default:
		lg.Info().
			Int("status", ae.Status).
			Str("code", ae.Code).
			Msg("api error")
	}

	c.AbortWithStatusJSON(ae.Status, ae.Response())
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without directly depending on unexported
// helpers.
func Fail(c *gin.Context, err error) { fail(c, err) }

// ok writes a success JSON response.
//
// It serializes `body` as JSON with the given HTTP status code.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
//
// Used when the operation succeeds but there is no response body.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
