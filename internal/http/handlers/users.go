package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/geocoder89/taskhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, fullName, username, email, passwordHash, role string, phoneNumber *string) (user.User, error)
}

type UsersHandler struct {
	users   UserReader
	writer  UserWriter
	tokens  *auth.Manager
	log     *slog.Logger
	metrics *observability.Prom // optional
}

func NewUsersHandler(users UserReader, writer UserWriter, tokens *auth.Manager, log *slog.Logger, metrics *observability.Prom) *UsersHandler {
	return &UsersHandler{
		users:   users,
		writer:  writer,
		tokens:  tokens,
		log:     log,
		metrics: metrics,
	}
}

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Failed to create user")
		return
	}

	// default role for new users

	role := req.Role

	if role == "" {
		role = "user"
	}

	u, err := h.writer.Create(ctx.Request.Context(), req.FullName, req.Username, req.Email, hash, role, req.PhoneNumber)

	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrUsernameTaken):
			RespondBadRequest(ctx, "Username already exists", nil)
		case errors.Is(err, postgres.ErrEmailTaken):
			RespondBadRequest(ctx, "Email already exists", nil)
		default:
			h.log.ErrorContext(ctx.Request.Context(), "create user failed", "err", err)
			RespondInternal(ctx, "Failed to create user")
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    u.Public(),
	})
}

// Login exchanges form credentials for a bearer token. Lookup misses,
// password mismatches and store failures all produce the same response so
// the endpoint cannot be used to enumerate usernames.
func (h *UsersHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindForm(ctx, &req) {
		return
	}

	u, err := h.users.GetByUsername(ctx.Request.Context(), req.Username)

	if err != nil {
		if !errors.Is(err, postgres.ErrUserNotFound) {
			h.log.ErrorContext(ctx.Request.Context(), "login lookup failed", "err", err)
			h.countLogin("error")
		} else {
			h.countLogin("rejected")
		}

		RespondUnauthorized(ctx, "Incorrect username or password")
		return
	}

	err = security.CheckPassword(u.PasswordHash, req.Password)

	if err != nil {
		if errors.Is(err, security.ErrInvalidHash) {
			h.log.ErrorContext(ctx.Request.Context(), "stored password hash is malformed", "username", u.Username)
		}

		h.countLogin("rejected")
		RespondUnauthorized(ctx, "Incorrect username or password")
		return
	}

	token, err := h.tokens.Issue(u.Username, u.ID, u.Role)

	if err != nil {
		h.countLogin("error")
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	h.countLogin("ok")

	if h.metrics != nil {
		h.metrics.TokensIssued.Inc()
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.tokens.TTL().Seconds()),
	})
}

func (h *UsersHandler) Me(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"username": identity.Username,
			"id":       identity.ID,
			"role":     identity.Role,
		},
	})
}

func (h *UsersHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "user authentication",
	})
}

func (h *UsersHandler) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}
