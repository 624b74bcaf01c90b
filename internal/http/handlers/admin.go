package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
)

type AdminTasksStore interface {
	ListAll(ctx context.Context) ([]task.Task, error)
	Delete(ctx context.Context, id int64) error
}

type UsersLister interface {
	List(ctx context.Context) ([]user.User, error)
}

// AdminHandler serves the admin-only views. Role enforcement happens in the
// middleware chain, not here.
type AdminHandler struct {
	tasks AdminTasksStore
	users UsersLister
}

func NewAdminHandler(tasks AdminTasksStore, users UsersLister) *AdminHandler {
	return &AdminHandler{tasks: tasks, users: users}
}

func (h *AdminHandler) ListAllTasks(ctx *gin.Context) {
	tasks, err := h.tasks.ListAll(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list tasks")
		return
	}

	if tasks == nil {
		tasks = []task.Task{}
	}

	ctx.JSON(http.StatusOK, gin.H{"items": tasks, "count": len(tasks)})
}

func (h *AdminHandler) ListUsers(ctx *gin.Context) {
	users, err := h.users.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	// hand out the public shape only; hashes stay in the store
	items := make([]user.Public, 0, len(users))

	for _, u := range users {
		items = append(items, u.Public())
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *AdminHandler) DeleteAnyTask(ctx *gin.Context) {
	id, ok := taskIDParam(ctx)

	if !ok {
		return
	}

	err := h.tasks.Delete(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, postgres.ErrTaskNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not delete task")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
