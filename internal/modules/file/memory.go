package file

import (
	"context"
	"sync"

	"fileshare/internal/domain"
)

// memoryRepository keeps file records in process memory. Id assignment
// happens under the lock, so concurrent uploads get distinct ids.
type memoryRepository struct {
	mu     sync.RWMutex
	files  []*domain.File
	nextID int64
}

// NewMemoryRepository returns the in-memory file repository used when no
// database is configured. State does not survive a restart.
func NewMemoryRepository() Repository {
	return &memoryRepository{nextID: 1}
}

func (r *memoryRepository) Create(_ context.Context, f *domain.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f.ID = r.nextID
	r.nextID++

	clone := *f
	r.files = append(r.files, &clone)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*domain.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.files {
		if f.ID == id {
			clone := *f
			return &clone, nil
		}
	}
	return nil, ErrFileNotFound
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID int64) ([]*domain.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.File, 0)
	for _, f := range r.files {
		if f.OwnerID == ownerID {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, f := range r.files {
		if f.ID == id {
			r.files = append(r.files[:i], r.files[i+1:]...)
			return nil
		}
	}
	return ErrFileNotFound
}
