package service

import (
	"context"

	"atelier/internal/models"
	"atelier/internal/repository"
	"atelier/internal/validation"
)

// BioService manages the at-most-one bio per user.
type BioService struct {
	bios  repository.BioRepository
	users repository.UserRepository
}

// NewBioService returns a new BioService.
func NewBioService(bios repository.BioRepository, users repository.UserRepository) *BioService {
	return &BioService{bios: bios, users: users}
}

// BioInput carries bio fields for create-or-update.
type BioInput struct {
	Body     string
	Website  string
	Location string
}

// CreateOrUpdate writes the user's bio, updating in place when one already
// exists.
func (s *BioService) CreateOrUpdate(ctx context.Context, userID uint, in BioInput) (*models.Bio, error) {
	if err := validation.ValidateBio(in.Body, in.Website, in.Location); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.bios.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Body = in.Body
		existing.Website = in.Website
		existing.Location = in.Location
		if err := s.bios.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	bio := &models.Bio{
		UserID:   userID,
		Body:     in.Body,
		Website:  in.Website,
		Location: in.Location,
	}
	if err := s.bios.Create(ctx, bio); err != nil {
		return nil, err
	}
	return bio, nil
}

// ForUser returns the user's bio, or nil when none exists.
func (s *BioService) ForUser(ctx context.Context, userID uint) (*models.Bio, error) {
	return s.bios.GetByUserID(ctx, userID)
}
