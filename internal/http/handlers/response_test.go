package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-posts-backend/internal/apierr"
)

func runWithHandler(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestFail_TypedErrorKeepsStatusAndEnvelope(t *testing.T) {
	w := runWithHandler(func(c *gin.Context) {
		fail(c, apierr.NewDuplicateSlug("dup"))
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
	var resp apierr.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != apierr.CodeDuplicateSlug {
		t.Fatalf("code = %s", resp.Error.Code)
	}
	if resp.Error.Details["slug"] == nil {
		t.Fatalf("details missing: %+v", resp.Error.Details)
	}
}

func TestFail_UntypedErrorBecomes500Internal(t *testing.T) {
	w := runWithHandler(func(c *gin.Context) {
		fail(c, errors.New("boom"))
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var resp apierr.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != apierr.CodeInternal || resp.Error.Message != "boom" {
		t.Fatalf("envelope wrong: %+v", resp.Error)
	}
}

func TestFail_AbortsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := false
	r.GET("/x", func(c *gin.Context) {
		fail(c, apierr.NewNotFound("Post"))
	}, func(c *gin.Context) {
		reached = true
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if reached {
		t.Fatalf("handler chain continued after fail")
	}
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestFail_ExportedVariantMatches(t *testing.T) {
	w := runWithHandler(func(c *gin.Context) {
		Fail(c, apierr.NewNotFound("Route"))
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestOKAndNoContent(t *testing.T) {
	w := runWithHandler(func(c *gin.Context) {
		ok(c, http.StatusCreated, gin.H{"id": 1})
	})
	if w.Code != http.StatusCreated || w.Body.Len() == 0 {
		t.Fatalf("ok(): code=%d body=%q", w.Code, w.Body.String())
	}

	w = runWithHandler(func(c *gin.Context) {
		noContent(c)
	})
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("noContent(): code=%d body=%q", w.Code, w.Body.String())
	}
}
