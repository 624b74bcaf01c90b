package handlers_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/repo/memory"
	"github.com/gin-gonic/gin"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type userResponse struct {
	Message string `json:"message"`
	User    struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	} `json:"user"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func newTestManager(t *testing.T) *auth.Manager {
	t.Helper()

	m, err := auth.NewManager("test-secret-key", "HS256", 20*time.Minute)

	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	return m
}

func setupUsersRouter(t *testing.T) (*gin.Engine, *memory.UsersRepo, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewUsersRepo()
	tokens := newTestManager(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := handlers.NewUsersHandler(repo, repo, tokens, log, nil)
	authMW := middlewares.NewAuthMiddleware(tokens)

	r := gin.New()
	r.POST("/users/", h.CreateUser)
	r.POST("/users/token", h.Login)
	r.GET("/users/me", authMW.RequireAuth(), h.Me)
	r.GET("/users/health", h.Health)

	return r, repo, tokens
}

func doJSON(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func doForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func mustUnmarshal[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to unmarshal response: %v body=%s", err, w.Body.String())
	}
}

func TestUsers_RegisterLoginMe(t *testing.T) {
	r, _, _ := setupUsersRouter(t)

	// register

	body := `{"full_name":"Ann A","username":"ann","email":"ann@x.com","password":"longenough1","role":"user"}`
	w := doJSON(r, http.MethodPost, "/users/", body, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("register got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}

	var created userResponse
	mustUnmarshal(t, w, &created)

	if created.User.Role != "user" || created.User.Username != "ann" {
		t.Fatalf("unexpected user in response: %+v", created.User)
	}

	// login

	w2 := doForm(r, "/users/token", url.Values{
		"username": {"ann"},
		"password": {"longenough1"},
	})

	if w2.Code != http.StatusOK {
		t.Fatalf("login got status %d, want %d, body=%s", w2.Code, http.StatusOK, w2.Body.String())
	}

	var tok tokenResponse
	mustUnmarshal(t, w2, &tok)

	if strings.TrimSpace(tok.AccessToken) == "" {
		t.Fatalf("expected non-empty access_token")
	}
	if tok.TokenType != "bearer" {
		t.Fatalf("expected token_type bearer, got %q", tok.TokenType)
	}
	if tok.ExpiresIn != 1200 {
		t.Fatalf("expected expires_in 1200, got %d", tok.ExpiresIn)
	}

	// me

	w3 := doJSON(r, http.MethodGet, "/users/me", "", map[string]string{
		"Authorization": "Bearer " + tok.AccessToken,
	})

	if w3.Code != http.StatusOK {
		t.Fatalf("me got status %d, want %d, body=%s", w3.Code, http.StatusOK, w3.Body.String())
	}

	var me struct {
		User struct {
			Username string `json:"username"`
			ID       int64  `json:"id"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	mustUnmarshal(t, w3, &me)

	if me.User.Username != "ann" || me.User.ID != created.User.ID || me.User.Role != "user" {
		t.Fatalf("unexpected identity: %+v", me.User)
	}
}

func TestUsers_DuplicateUsername(t *testing.T) {
	r, repo, _ := setupUsersRouter(t)

	first := `{"full_name":"Ann A","username":"ann","email":"ann@x.com","password":"longenough1"}`
	if w := doJSON(r, http.MethodPost, "/users/", first, nil); w.Code != http.StatusCreated {
		t.Fatalf("first register got status %d, body=%s", w.Code, w.Body.String())
	}

	second := `{"full_name":"Ann B","username":"ann","email":"other@x.com","password":"longenough1"}`
	w := doJSON(r, http.MethodPost, "/users/", second, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register got status %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp detailResponse
	mustUnmarshal(t, w, &resp)

	if resp.Detail != "Username already exists" {
		t.Fatalf("unexpected detail: %q", resp.Detail)
	}

	if repo.Count() != 1 {
		t.Fatalf("rejected registration must not write a row, have %d rows", repo.Count())
	}
}

func TestUsers_DuplicateEmail(t *testing.T) {
	r, repo, _ := setupUsersRouter(t)

	first := `{"full_name":"Ann A","username":"ann","email":"ann@x.com","password":"longenough1"}`
	if w := doJSON(r, http.MethodPost, "/users/", first, nil); w.Code != http.StatusCreated {
		t.Fatalf("first register got status %d, body=%s", w.Code, w.Body.String())
	}

	second := `{"full_name":"Bob B","username":"bob","email":"ann@x.com","password":"longenough1"}`
	w := doJSON(r, http.MethodPost, "/users/", second, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email got status %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp detailResponse
	mustUnmarshal(t, w, &resp)

	if resp.Detail != "Email already exists" {
		t.Fatalf("unexpected detail: %q", resp.Detail)
	}

	if repo.Count() != 1 {
		t.Fatalf("rejected registration must not write a row, have %d rows", repo.Count())
	}
}

func TestUsers_ShortPasswordRejected(t *testing.T) {
	r, repo, _ := setupUsersRouter(t)

	body := `{"full_name":"Ann A","username":"ann","email":"ann@x.com","password":"short"}`
	w := doJSON(r, http.MethodPost, "/users/", body, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("short password got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	if repo.Count() != 0 {
		t.Fatalf("invalid registration must not write a row")
	}
}

func TestUsers_LoginFailures(t *testing.T) {
	r, _, _ := setupUsersRouter(t)

	body := `{"full_name":"Ann A","username":"ann","email":"ann@x.com","password":"longenough1"}`
	if w := doJSON(r, http.MethodPost, "/users/", body, nil); w.Code != http.StatusCreated {
		t.Fatalf("register got status %d, body=%s", w.Code, w.Body.String())
	}

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "ann", "wrong-password"},
		{"unknown user", "nobody", "longenough1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doForm(r, "/users/token", url.Values{
				"username": {tc.username},
				"password": {tc.password},
			})

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("got status %d, want %d", w.Code, http.StatusUnauthorized)
			}

			if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Fatalf("expected WWW-Authenticate: Bearer, got %q", got)
			}

			var resp detailResponse
			mustUnmarshal(t, w, &resp)

			// one message for both failure modes: no username enumeration
			if resp.Detail != "Incorrect username or password" {
				t.Fatalf("unexpected detail: %q", resp.Detail)
			}
		})
	}
}

func TestUsers_MeWithExpiredToken(t *testing.T) {
	r, _, _ := setupUsersRouter(t)

	expiringTokens, err := auth.NewManager("test-secret-key", "HS256", time.Nanosecond)

	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := expiringTokens.Issue("ann", 1, "user")

	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	w := doJSON(r, http.MethodGet, "/users/me", "", map[string]string{
		"Authorization": "Bearer " + token,
	})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token got status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestUsers_Health(t *testing.T) {
	r, _, _ := setupUsersRouter(t)

	w := doJSON(r, http.MethodGet, "/users/health", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("health got status %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	mustUnmarshal(t, w, &resp)

	if resp.Status != "healthy" || resp.Service != "user authentication" {
		t.Fatalf("unexpected health body: %+v", resp)
	}
}
