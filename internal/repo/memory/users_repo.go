package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
)

// UsersRepo is an in-memory stand-in for the postgres repo. It returns the
// same sentinel errors so handlers behave identically under test.
type UsersRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		nextID: 1,
		users:  make(map[int64]user.User),
	}
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}

	return user.User{}, postgres.ErrUserNotFound
}

func (r *UsersRepo) Create(ctx context.Context, fullName, username, email, passwordHash, role string, phoneNumber *string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == username {
			return user.User{}, postgres.ErrUsernameTaken
		}
		if existing.Email == email {
			return user.User{}, postgres.ErrEmailTaken
		}
	}

	u := user.User{
		ID:           r.nextID,
		FullName:     fullName,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		PhoneNumber:  phoneNumber,
		CreatedAt:    time.Now().UTC(),
	}

	r.users[u.ID] = u
	r.nextID++

	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	output := make([]user.User, 0, len(r.users))

	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			output = append(output, u)
		}
	}

	return output, nil
}

// Count reports the number of stored rows, used by tests asserting that a
// rejected registration wrote nothing.
func (r *UsersRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.users)
}
