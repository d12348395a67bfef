package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func limitedRouter(rps float64, burst int, key keyFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(rps, burst, key)
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	r := limitedRouter(100, 5, KeyByAuthorOrIP())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d rejected: %d", i, w.Code)
		}
	}
}

func TestRateLimiter_RejectsBeyondBurstWithEnvelope(t *testing.T) {
	// rps 0: the bucket never refills, so the burst is all we get.
	r := limitedRouter(0, 1, KeyByAuthorOrIP())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request rejected: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request not limited: %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After missing")
	}
	var resp struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "RATE_LIMITED" {
		t.Fatalf("code = %s", resp.Error.Code)
	}
}

func TestKeyByAuthorOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	key := KeyByAuthorOrIP()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := key(c); got[:3] != "ip:" {
		t.Fatalf("expected ip key, got %q", got)
	}

	c.Set("authorID", "a1")
	if got := key(c); got != "author:a1" {
		t.Fatalf("expected author key, got %q", got)
	}

	c.Set("authorID", "") // empty falls back to IP
	if got := key(c); got[:3] != "ip:" {
		t.Fatalf("empty author should fall back to ip, got %q", got)
	}
}

func TestRateLimiter_SeparateBucketsPerKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(0, 1, func(c *gin.Context) string {
		return c.GetHeader("X-Key")
	})
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Key", key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if hit("a") != http.StatusOK {
		t.Fatalf("first a rejected")
	}
	if hit("a") != http.StatusTooManyRequests {
		t.Fatalf("second a not limited")
	}
	// A different key has its own bucket.
	if hit("b") != http.StatusOK {
		t.Fatalf("first b rejected")
	}
}

func TestNewRateLimiter_CoercesBurst(t *testing.T) {
	rl := NewRateLimiter(1, 0, KeyByAuthorOrIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d; want 1", rl.burst)
	}
}
