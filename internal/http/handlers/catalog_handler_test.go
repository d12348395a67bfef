package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/tbourn/go-posts-backend/internal/apierr"
	"github.com/tbourn/go-posts-backend/internal/domain"
)

func TestListCategories_Success(t *testing.T) {
	cat := stubCatalogSvc{categories: func(context.Context) ([]domain.Category, error) {
		return []domain.Category{{ID: 1, Name: "Go", Slug: "go"}}, nil
	}}
	r := newTestRouter(stubPostSvc{}, cat)

	w := doJSON(t, r, http.MethodGet, "/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out []domain.Category
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || len(out) != 1 || out[0].Slug != "go" {
		t.Fatalf("body wrong: %v %s", err, w.Body.String())
	}
}

func TestListCategories_ServiceError(t *testing.T) {
	cat := stubCatalogSvc{categories: func(context.Context) ([]domain.Category, error) {
		return nil, apierr.NewDatabase(context.DeadlineExceeded)
	}}
	r := newTestRouter(stubPostSvc{}, cat)

	w := doJSON(t, r, http.MethodGet, "/categories", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decodeErr(t, w); resp.Error.Code != apierr.CodeDatabase {
		t.Fatalf("code = %s", resp.Error.Code)
	}
}

func TestListTags_Success(t *testing.T) {
	cat := stubCatalogSvc{tags: func(context.Context) ([]domain.Tag, error) {
		return []domain.Tag{{ID: 2, Name: "http", Slug: "http"}}, nil
	}}
	r := newTestRouter(stubPostSvc{}, cat)

	w := doJSON(t, r, http.MethodGet, "/tags", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out []domain.Tag
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || len(out) != 1 || out[0].Name != "http" {
		t.Fatalf("body wrong: %v %s", err, w.Body.String())
	}
}
