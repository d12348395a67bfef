package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestNewValidation_GroupsDedupsAndKeepsOrder(t *testing.T) {
	e := NewValidation([]FieldError{
		{Field: "title", Message: "title is required", Code: "REQUIRED"},
		{Field: "content", Message: "content is required", Code: "REQUIRED"},
		{Field: "title", Message: "title is required", Code: "REQUIRED"}, // duplicate
		{Field: "title", Message: "title must be at most 255 characters", Code: "MAX_LENGTH"},
	})

	if e.Status != http.StatusBadRequest || e.Code != CodeValidation {
		t.Fatalf("unexpected status/code: %d %s", e.Status, e.Code)
	}
	if e.Message != "Validation failed" {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	got := e.Details["title"]
	if len(got) != 2 || got[0] != "title is required" || got[1] != "title must be at most 255 characters" {
		t.Fatalf("title details wrong: %#v", got)
	}
	if len(e.Details["content"]) != 1 {
		t.Fatalf("content details wrong: %#v", e.Details["content"])
	}
}

func TestNewNotFound_WithAndWithoutID(t *testing.T) {
	e := NewNotFound("Post")
	if e.Status != http.StatusNotFound || e.Code != CodeNotFound || e.Message != "Post not found" {
		t.Fatalf("bare not-found wrong: %+v", e)
	}
	e = NewNotFound("Post", 42)
	if e.Message != "Post with id 42 not found" {
		t.Fatalf("id not-found message wrong: %q", e.Message)
	}
}

func TestNewDuplicateSlug_ShapeAndDetails(t *testing.T) {
	e := NewDuplicateSlug("hello-world")
	if e.Status != http.StatusConflict || e.Code != CodeDuplicateSlug {
		t.Fatalf("unexpected status/code: %d %s", e.Status, e.Code)
	}
	if got := e.Details["slug"]; len(got) != 1 || got[0] != `Slug "hello-world" is already in use` {
		t.Fatalf("slug details wrong: %#v", got)
	}
}

func TestNewForeignKey_Shape(t *testing.T) {
	e := NewForeignKey("categoryId", 7)
	if e.Status != http.StatusBadRequest || e.Code != CodeForeignKeyConstraint {
		t.Fatalf("unexpected status/code: %d %s", e.Status, e.Code)
	}
	if got := e.Details["categoryId"]; len(got) != 1 || got[0] != "categoryId 7 does not exist" {
		t.Fatalf("details wrong: %#v", got)
	}
}

func TestNewDatabase_RetainsCauseViaUnwrap(t *testing.T) {
	cause := errors.New("disk I/O error")
	e := NewDatabase(cause)
	if e.Status != http.StatusInternalServerError || e.Code != CodeDatabase {
		t.Fatalf("unexpected status/code: %d %s", e.Status, e.Code)
	}
	if !errors.Is(e, cause) {
		t.Fatalf("cause not reachable via errors.Is")
	}
	// The cause must never leak into the wire shape.
	b, err := json.Marshal(e.Response())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"error":{"message":"A database error occurred","code":"DATABASE_ERROR"}}` {
		t.Fatalf("wire shape wrong: %s", b)
	}
}

func TestResponse_OmitsEmptyDetails(t *testing.T) {
	b, err := json.Marshal(NewInternal("boom").Response())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"error":{"message":"boom","code":"INTERNAL_ERROR"}}` {
		t.Fatalf("unexpected body: %s", b)
	}

	b, err = json.Marshal(NewConflict("taken", map[string][]string{"slug": {"in use"}}).Response())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"error":{"message":"taken","code":"CONFLICT","details":{"slug":["in use"]}}}`
	if string(b) != want {
		t.Fatalf("unexpected body: %s", b)
	}
}

func TestClassify(t *testing.T) {
	// Typed errors pass through unchanged.
	typed := NewNotFound("Post", 1)
	if got := Classify(typed); got != typed {
		t.Fatalf("typed error did not pass through")
	}

	// Untyped errors become INTERNAL_ERROR carrying the message.
	got := Classify(errors.New("boom"))
	if got.Status != http.StatusInternalServerError || got.Code != CodeInternal || got.Message != "boom" {
		t.Fatalf("untyped classify wrong: %+v", got)
	}

	// nil still yields something serializable.
	got = Classify(nil)
	if got.Status != http.StatusInternalServerError || got.Code != CodeInternal {
		t.Fatalf("nil classify wrong: %+v", got)
	}
}

func TestIsRetryable_OnlyServerFaults(t *testing.T) {
	cases := []struct {
		err  *Error
		want bool
	}{
		{NewValidation(nil), false},
		{NewNotFound("Post"), false},
		{NewConflict("x", nil), false},
		{NewDuplicateSlug("s"), false},
		{NewForeignKey("f", 1), false},
		{NewDatabase(errors.New("x")), true},
		{NewInternal("x"), true},
		{nil, false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Errorf("IsRetryable(%+v) = %v; want %v", c.err, got, c.want)
		}
	}
}

func TestError_ErrorReturnsMessage(t *testing.T) {
	if got := NewInternal("oops").Error(); got != "oops" {
		t.Fatalf("Error() = %q", got)
	}
}
