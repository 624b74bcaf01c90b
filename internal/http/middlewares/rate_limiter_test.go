package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := middlewares.NewRateLimiter(2, time.Minute)

	r := gin.New()
	r.POST("/login", rl.Middleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	attempt := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := attempt(); w.Code != http.StatusOK {
			t.Fatalf("attempt %d got status %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	w := attempt()

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt got status %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header on limited response")
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := middlewares.NewRateLimiter(1, 20*time.Millisecond)

	r := gin.New()
	r.POST("/login", rl.Middleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	attempt := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := attempt(); code != http.StatusOK {
		t.Fatalf("first attempt got %d", code)
	}

	if code := attempt(); code != http.StatusTooManyRequests {
		t.Fatalf("second attempt got %d, want 429", code)
	}

	time.Sleep(30 * time.Millisecond)

	if code := attempt(); code != http.StatusOK {
		t.Fatalf("attempt after window reset got %d, want 200", code)
	}
}

func TestRateLimiter_SeparateKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := middlewares.NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.POST("/login", rl.Middleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	attempt := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := attempt("10.0.0.3:1"); code != http.StatusOK {
		t.Fatalf("first client got %d", code)
	}

	// a different client is not affected by the first client's window
	if code := attempt("10.0.0.4:1"); code != http.StatusOK {
		t.Fatalf("second client got %d, want 200", code)
	}
}
