package profiles

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes profile reads to the HTTP layer.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error)
	GetStats(ctx context.Context, userID uuid.UUID) (Stats, error)
}

type service struct {
	repo *Repository
}

// ServiceParams groups dependencies for the profile service.
type ServiceParams struct {
	Repo *Repository
}

// NewService builds a profile service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	return &service{repo: params.Repo}, nil
}

// GetProfile returns the full profile projection including derived stats.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error) {
	if userID == uuid.Nil {
		return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return ProfileDTO{}, pkgerrors.Persistence(pkgerrors.StageRead, err, "load profile")
	}
	return FromModel(profile), nil
}

// GetStats returns only the derived counters.
func (s *service) GetStats(ctx context.Context, userID uuid.UUID) (Stats, error) {
	dto, err := s.GetProfile(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return dto.Stats, nil
}
