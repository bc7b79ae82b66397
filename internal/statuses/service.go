package statuses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/filmatch/filmatch-backend/pkg/enums"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
)

// StatusDTO is the API projection of one movie status row.
type StatusDTO struct {
	MovieID   int64             `json:"movie_id"`
	Status    enums.MovieStatus `json:"status"`
	Rating    *int              `json:"rating,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Service manages per-movie watched/watchlist markers.
type Service interface {
	SetStatus(ctx context.Context, userID uuid.UUID, movieID int64, status enums.MovieStatus, rating *int) (StatusDTO, error)
	GetStatus(ctx context.Context, userID uuid.UUID, movieID int64) (StatusDTO, error)
	ListByStatus(ctx context.Context, userID uuid.UUID, status enums.MovieStatus) ([]StatusDTO, error)
}

type statusStore interface {
	SetStatus(ctx context.Context, userID uuid.UUID, movieID int64, next enums.MovieStatus, rating *int) (enums.MovieStatus, error)
	GetStatus(ctx context.Context, userID uuid.UUID, movieID int64) (*models.UserMovieStatus, error)
	ListByStatus(ctx context.Context, userID uuid.UUID, status enums.MovieStatus) ([]models.UserMovieStatus, error)
}

type service struct {
	repo statusStore
}

// ServiceParams groups dependencies for the status service.
type ServiceParams struct {
	Repo statusStore
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("status store is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) SetStatus(ctx context.Context, userID uuid.UUID, movieID int64, status enums.MovieStatus, rating *int) (StatusDTO, error) {
	if userID == uuid.Nil {
		return StatusDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if movieID <= 0 {
		return StatusDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "movie id is required")
	}
	if !status.IsValid() {
		return StatusDTO{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", status))
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return StatusDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.repo.SetStatus(ctx, userID, movieID, status, rating); err != nil {
		return StatusDTO{}, pkgerrors.Persistence(pkgerrors.StageWrite, err, "save movie status")
	}

	row, err := s.repo.GetStatus(ctx, userID, movieID)
	if err != nil {
		return StatusDTO{}, pkgerrors.Persistence(pkgerrors.StageRead, err, "reload movie status")
	}
	return fromModel(row), nil
}

func (s *service) GetStatus(ctx context.Context, userID uuid.UUID, movieID int64) (StatusDTO, error) {
	if userID == uuid.Nil {
		return StatusDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	row, err := s.repo.GetStatus(ctx, userID, movieID)
	switch {
	case err == nil:
		return fromModel(row), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return StatusDTO{MovieID: movieID, Status: enums.MovieStatusNone}, nil
	default:
		return StatusDTO{}, pkgerrors.Persistence(pkgerrors.StageRead, err, "load movie status")
	}
}

func (s *service) ListByStatus(ctx context.Context, userID uuid.UUID, status enums.MovieStatus) ([]StatusDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if !status.IsValid() || status == enums.MovieStatusNone {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cannot list status %q", status))
	}

	rows, err := s.repo.ListByStatus(ctx, userID, status)
	if err != nil {
		return nil, pkgerrors.Persistence(pkgerrors.StageRead, err, "list movie statuses")
	}
	out := make([]StatusDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

func fromModel(row *models.UserMovieStatus) StatusDTO {
	return StatusDTO{
		MovieID:   row.MovieID,
		Status:    row.Status,
		Rating:    row.Rating,
		UpdatedAt: row.UpdatedAt,
	}
}
