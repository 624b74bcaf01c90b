package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Identity is what a validated token asserts about the caller.
type Identity struct {
	Username string
	ID       int64
	Role     string
}

type AuthMiddleware struct {
	tokens TokenValidator
}

func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth validates the bearer token and stashes the caller identity on
// the context. Every validation failure collapses to the same 401 body.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := m.tokens.Validate(raw)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ctxUsernameKey, claims.Username)
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, claims.Role)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"detail": "Could not validate credentials",
	})
}

// Helpers so handlers don't need to know the magic keys.

func IdentityFromContext(c *gin.Context) (Identity, bool) {
	username, ok1 := c.Get(ctxUsernameKey)
	id, ok2 := c.Get(ctxUserIDKey)
	role, ok3 := c.Get(ctxRoleKey)

	if !ok1 || !ok2 || !ok3 {
		return Identity{}, false
	}

	name, ok1 := username.(string)
	userID, ok2 := id.(int64)
	roleStr, ok3 := role.(string)

	if !ok1 || !ok2 || !ok3 {
		return Identity{}, false
	}

	return Identity{Username: name, ID: userID, Role: roleStr}, true
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
