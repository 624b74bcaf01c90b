package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindErrorResponse struct {
	Detail string                `json:"detail"`
	Fields []handlers.FieldError `json:"fields"`
}

func setupBindRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/users", func(ctx *gin.Context) {
		var req user.CreateUserRequest
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})

	return r
}

func TestBindJSON_ValidationErrorsUseWireFieldNames(t *testing.T) {
	r := setupBindRouter()

	w := doJSON(r, http.MethodPost, "/users", `{"username":"ab"}`, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if resp.Detail != "Invalid request body" {
		t.Fatalf("unexpected detail: %q", resp.Detail)
	}

	wantRules := map[string]string{
		"full_name": "required",
		"username":  "min",
		"email":     "required",
		"password":  "required",
	}

	found := map[string]handlers.FieldError{}
	for _, fieldErr := range resp.Fields {
		found[fieldErr.Field] = fieldErr
	}

	for field, rule := range wantRules {
		fieldErr, ok := found[field]
		if !ok {
			t.Fatalf("missing field error for %q: %+v", field, resp.Fields)
		}
		if fieldErr.Rule != rule {
			t.Fatalf("field %q rule mismatch: got %q want %q", field, fieldErr.Rule, rule)
		}
		if fieldErr.Message == "" {
			t.Fatalf("field %q should include a non-empty message", field)
		}
	}
}

func TestBindJSON_UsernameCharset(t *testing.T) {
	r := setupBindRouter()

	body := `{"full_name":"Ann A","username":"bad name!","email":"ann@x.com","password":"longenough1"}`
	w := doJSON(r, http.MethodPost, "/users", body, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if len(resp.Fields) != 1 || resp.Fields[0].Field != "username" || resp.Fields[0].Rule != "username" {
		t.Fatalf("expected a single username rule violation, got %+v", resp.Fields)
	}
}

func TestBindJSON_TypeMismatch(t *testing.T) {
	r := setupBindRouter()

	body := `{"full_name":"Ann A","username":"ann","email":"ann@x.com","password":12345678}`
	w := doJSON(r, http.MethodPost, "/users", body, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if len(resp.Fields) == 0 || resp.Fields[0].Rule != "type" {
		t.Fatalf("expected a type rule violation, got %+v", resp.Fields)
	}
}

func TestBindJSON_SyntaxError(t *testing.T) {
	r := setupBindRouter()

	w := doJSON(r, http.MethodPost, "/users", `{"full_name":`, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}
