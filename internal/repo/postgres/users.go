package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

type UsersRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom // optional
}

func NewUsersRepo(pool *pgxpool.Pool, metrics *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, metrics: metrics}
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_username", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, full_name, username, email, password_hash, role, phone_number, created_at
             FROM users
             WHERE username = $1`,
			username,
		).Scan(
			&u.ID,
			&u.FullName,
			&u.Username,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.PhoneNumber,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// Create inserts a new user row. Uniqueness of username and email is
// enforced by the table constraints, so a duplicate insert fails atomically
// without leaving a partial row behind.
func (r *UsersRepo) Create(ctx context.Context, fullName, username, email, passwordHash, role string, phoneNumber *string) (user.User, error) {
	var u user.User

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO users (full_name, username, email, password_hash, role, phone_number)
             VALUES ($1, $2, $3, $4, $5, $6)
             RETURNING id, full_name, username, email, password_hash, role, phone_number, created_at`,
			fullName, username, email, passwordHash, role, phoneNumber,
		).Scan(
			&u.ID,
			&u.FullName,
			&u.Username,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.PhoneNumber,
			&u.CreatedAt,
		)
	})

	if err != nil {
		return user.User{}, mapUniqueViolation(err)
	}

	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	var output []user.User

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT id, full_name, username, email, password_hash, role, phone_number, created_at
             FROM users
             ORDER BY id ASC`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var u user.User

			err = rows.Scan(&u.ID, &u.FullName, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.PhoneNumber, &u.CreatedAt)

			if err != nil {
				return err
			}

			output = append(output, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.metrics == nil {
		return fn()
	}

	return r.metrics.ObserveDB(op, fn)
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "username"):
			return ErrUsernameTaken
		case strings.Contains(pgErr.ConstraintName, "email"):
			return ErrEmailTaken
		}
	}

	return err
}
