package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
)

type TasksRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]task.Task
}

func NewTasksRepo() *TasksRepo {
	return &TasksRepo{
		nextID: 1,
		tasks:  make(map[int64]task.Task),
	}
}

func (r *TasksRepo) Create(ctx context.Context, req task.CreateTaskRequest, ownerID int64) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := task.Task{
		ID:          r.nextID,
		Task:        req.Task,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		OwnerID:     ownerID,
	}

	r.tasks[t.ID] = t
	r.nextID++

	return t, nil
}

func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID int64) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var output []task.Task

	for id := int64(1); id < r.nextID; id++ {
		if t, ok := r.tasks[id]; ok && t.OwnerID == ownerID {
			output = append(output, t)
		}
	}

	return output, nil
}

func (r *TasksRepo) GetByOwner(ctx context.Context, id, ownerID int64) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]

	if !ok || t.OwnerID != ownerID {
		return task.Task{}, postgres.ErrTaskNotFound
	}

	return t, nil
}

func (r *TasksRepo) UpdateByOwner(ctx context.Context, id, ownerID int64, req task.CreateTaskRequest) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]

	if !ok || t.OwnerID != ownerID {
		return task.Task{}, postgres.ErrTaskNotFound
	}

	t.Task = req.Task
	t.Description = req.Description
	t.Priority = req.Priority
	t.Status = req.Status

	r.tasks[id] = t

	return t, nil
}

func (r *TasksRepo) DeleteByOwner(ctx context.Context, id, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]

	if !ok || t.OwnerID != ownerID {
		return postgres.ErrTaskNotFound
	}

	delete(r.tasks, id)

	return nil
}

func (r *TasksRepo) ListAll(ctx context.Context) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var output []task.Task

	for id := int64(1); id < r.nextID; id++ {
		if t, ok := r.tasks[id]; ok {
			output = append(output, t)
		}
	}

	return output, nil
}

func (r *TasksRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return postgres.ErrTaskNotFound
	}

	delete(r.tasks, id)

	return nil
}
