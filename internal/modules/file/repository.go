package file

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fileshare/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, f *domain.File) error
	GetByID(ctx context.Context, id int64) (*domain.File, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.File, error)
	Delete(ctx context.Context, id int64) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns the database-backed file repository. Ids are
// assigned by the database.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, f *domain.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id int64) (*domain.File, error) {
	var f domain.File
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *gormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.File, error) {
	var files []*domain.File
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&files).Error
	return files, err
}

func (r *gormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.File{})
	if res.Error != nil {
		return res.Error
	}
	// A concurrent deleter may have won the race after our lookup; the
	// loser reports the record as already gone, same as the in-memory
	// backend.
	if res.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}
