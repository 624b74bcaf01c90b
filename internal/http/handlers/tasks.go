package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/geocoder89/taskhub/internal/cache"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
)

type TasksStore interface {
	Create(ctx context.Context, req task.CreateTaskRequest, ownerID int64) (task.Task, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]task.Task, error)
	GetByOwner(ctx context.Context, id, ownerID int64) (task.Task, error)
	UpdateByOwner(ctx context.Context, id, ownerID int64, req task.CreateTaskRequest) (task.Task, error)
	DeleteByOwner(ctx context.Context, id, ownerID int64) error
}

type TasksHandler struct {
	store TasksStore
	lists *cache.TasksCache // optional
}

func NewTasksHandler(store TasksStore, lists *cache.TasksCache) *TasksHandler {
	return &TasksHandler{store: store, lists: lists}
}

func (h *TasksHandler) ListTasks(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	if h.lists != nil {
		if tasks, hit := h.lists.Get(identity.ID); hit {
			ctx.JSON(http.StatusOK, gin.H{"items": tasks, "count": len(tasks)})
			return
		}
	}

	tasks, err := h.store.ListByOwner(ctx.Request.Context(), identity.ID)

	if err != nil {
		RespondInternal(ctx, "Could not list tasks")
		return
	}

	if tasks == nil {
		tasks = []task.Task{}
	}

	if h.lists != nil {
		h.lists.Set(identity.ID, tasks)
	}

	ctx.JSON(http.StatusOK, gin.H{"items": tasks, "count": len(tasks)})
}

func (h *TasksHandler) GetTask(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	id, ok := taskIDParam(ctx)

	if !ok {
		return
	}

	t, err := h.store.GetByOwner(ctx.Request.Context(), id, identity.ID)

	if err != nil {
		if errors.Is(err, postgres.ErrTaskNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not fetch task")
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	t, err := h.store.Create(ctx.Request.Context(), req, identity.ID)

	if err != nil {
		RespondInternal(ctx, "Could not create task")
		return
	}

	h.invalidate(identity.ID)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    t,
	})
}

func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	id, ok := taskIDParam(ctx)

	if !ok {
		return
	}

	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	t, err := h.store.UpdateByOwner(ctx.Request.Context(), id, identity.ID, req)

	if err != nil {
		if errors.Is(err, postgres.ErrTaskNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not update task")
		return
	}

	h.invalidate(identity.ID)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    t,
	})
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	id, ok := taskIDParam(ctx)

	if !ok {
		return
	}

	err := h.store.DeleteByOwner(ctx.Request.Context(), id, identity.ID)

	if err != nil {
		if errors.Is(err, postgres.ErrTaskNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not delete task")
		return
	}

	h.invalidate(identity.ID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *TasksHandler) invalidate(ownerID int64) {
	if h.lists != nil {
		h.lists.Invalidate(ownerID)
	}
}

func taskIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid task id", nil)
		return 0, false
	}

	return id, true
}
