package user

import (
	"context"
	"sync"

	"fileshare/internal/domain"
)

// memoryRepository keeps users in process memory. All access goes
// through the mutex, and id assignment happens inside the critical
// section, so concurrent registrations cannot collide.
type memoryRepository struct {
	mu     sync.RWMutex
	users  []*domain.User
	nextID int64
}

// NewMemoryRepository returns the in-memory user repository used when no
// database is configured. State does not survive a restart.
func NewMemoryRepository() Repository {
	return &memoryRepository{nextID: 1}
}

func (r *memoryRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Email uniqueness must hold under concurrent registrations, so the
	// check lives in the same critical section as the append.
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailAlreadyExists
		}
	}

	u.ID = r.nextID
	r.nextID++

	clone := *u
	r.users = append(r.users, &clone)
	return nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) ListAll(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}
