package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTaskNotFound = errors.New("task not found")

type TasksRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom // optional
}

func NewTasksRepo(pool *pgxpool.Pool, metrics *observability.Prom) *TasksRepo {
	return &TasksRepo{pool: pool, metrics: metrics}
}

func (r *TasksRepo) Create(ctx context.Context, req task.CreateTaskRequest, ownerID int64) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO tasks (task, description, priority, status, owner_id)
             VALUES ($1, $2, $3, $4, $5)
             RETURNING id, task, description, priority, status, owner_id`,
			req.Task, req.Description, req.Priority, req.Status, ownerID,
		).Scan(&t.ID, &t.Task, &t.Description, &t.Priority, &t.Status, &t.OwnerID)
	})

	if err != nil {
		return task.Task{}, err
	}

	return t, nil
}

// ListByOwner returns only the caller's tasks. Scoping lives in the query
// so a handler cannot forget it.
func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID int64) ([]task.Task, error) {
	var output []task.Task

	err := r.observe("tasks.list_by_owner", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT id, task, description, priority, status, owner_id
             FROM tasks
             WHERE owner_id = $1
             ORDER BY id ASC`,
			ownerID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		output, err = scanTasks(rows)
		return err
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *TasksRepo) GetByOwner(ctx context.Context, id, ownerID int64) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.get_by_owner", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, task, description, priority, status, owner_id
             FROM tasks
             WHERE id = $1 AND owner_id = $2`,
			id, ownerID,
		).Scan(&t.ID, &t.Task, &t.Description, &t.Priority, &t.Status, &t.OwnerID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, ErrTaskNotFound
		}

		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) UpdateByOwner(ctx context.Context, id, ownerID int64, req task.CreateTaskRequest) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.update_by_owner", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE tasks
             SET task = $1, description = $2, priority = $3, status = $4
             WHERE id = $5 AND owner_id = $6
             RETURNING id, task, description, priority, status, owner_id`,
			req.Task, req.Description, req.Priority, req.Status, id, ownerID,
		).Scan(&t.ID, &t.Task, &t.Description, &t.Priority, &t.Status, &t.OwnerID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, ErrTaskNotFound
		}

		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) DeleteByOwner(ctx context.Context, id, ownerID int64) error {
	var affected int64

	err := r.observe("tasks.delete_by_owner", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// ListAll is the admin view across every owner.
func (r *TasksRepo) ListAll(ctx context.Context) ([]task.Task, error) {
	var output []task.Task

	err := r.observe("tasks.list_all", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT id, task, description, priority, status, owner_id
             FROM tasks
             ORDER BY id ASC`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		output, err = scanTasks(rows)
		return err
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *TasksRepo) Delete(ctx context.Context, id int64) error {
	var affected int64

	err := r.observe("tasks.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *TasksRepo) observe(op string, fn func() error) error {
	if r.metrics == nil {
		return fn()
	}

	return r.metrics.ObserveDB(op, fn)
}

func scanTasks(rows pgx.Rows) ([]task.Task, error) {
	var output []task.Task

	for rows.Next() {
		var t task.Task

		err := rows.Scan(&t.ID, &t.Task, &t.Description, &t.Priority, &t.Status, &t.OwnerID)

		if err != nil {
			return nil, err
		}

		output = append(output, t)
	}

	return output, rows.Err()
}
