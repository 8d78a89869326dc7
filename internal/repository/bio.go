package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"atelier/internal/models"
)

// BioRepository defines persistence operations for bios.
type BioRepository interface {
	// GetByUserID returns (nil, nil) when the user has no bio yet.
	GetByUserID(ctx context.Context, userID uint) (*models.Bio, error)
	Create(ctx context.Context, bio *models.Bio) error
	Update(ctx context.Context, bio *models.Bio) error
	DeleteByUserID(ctx context.Context, userID uint) error
	WithTx(tx *gorm.DB) BioRepository
}

type bioRepository struct {
	db *gorm.DB
}

// NewBioRepository returns a new BioRepository implementation.
func NewBioRepository(db *gorm.DB) BioRepository {
	return &bioRepository{db: db}
}

func (r *bioRepository) WithTx(tx *gorm.DB) BioRepository {
	return &bioRepository{db: tx}
}

func (r *bioRepository) GetByUserID(ctx context.Context, userID uint) (*models.Bio, error) {
	var bio models.Bio
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&bio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &bio, nil
}

func (r *bioRepository) Create(ctx context.Context, bio *models.Bio) error {
	if err := r.db.WithContext(ctx).Create(bio).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already has a bio")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bioRepository) Update(ctx context.Context, bio *models.Bio) error {
	if err := r.db.WithContext(ctx).Save(bio).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bioRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Bio{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
