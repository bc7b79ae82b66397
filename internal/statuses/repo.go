package statuses

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/internal/profiles"
	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/filmatch/filmatch-backend/pkg/enums"
)

// Repository persists per-movie statuses and keeps the profile counters in
// step with them.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetStatus returns the stored status row for one movie.
func (r *Repository) GetStatus(ctx context.Context, userID uuid.UUID, movieID int64) (*models.UserMovieStatus, error) {
	var row models.UserMovieStatus
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByStatus returns the user's rows with the given status, most recently
// updated first.
func (r *Repository) ListByStatus(ctx context.Context, userID uuid.UUID, status enums.MovieStatus) ([]models.UserMovieStatus, error) {
	var rows []models.UserMovieStatus
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SetStatus upserts the status row and adjusts the profile counters in the
// same transaction, so a crash can never leave the two out of step. The
// previous status is returned for the caller's response.
func (r *Repository) SetStatus(ctx context.Context, userID uuid.UUID, movieID int64, next enums.MovieStatus, rating *int) (enums.MovieStatus, error) {
	prev := enums.MovieStatusNone

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.UserMovieStatus
		err := tx.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&existing).Error
		switch {
		case err == nil:
			prev = existing.Status
			updates := map[string]any{
				"status":     next,
				"updated_at": time.Now().UTC(),
			}
			if rating != nil {
				updates["rating"] = *rating
			}
			if err := tx.Model(&models.UserMovieStatus{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return err
			}

		case errors.Is(err, gorm.ErrRecordNotFound):
			row := models.UserMovieStatus{
				ID:      uuid.New(),
				UserID:  userID,
				MovieID: movieID,
				Status:  next,
				Rating:  rating,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}

		default:
			return err
		}

		var profile models.UserProfile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return err
		}
		adjusted := profiles.ApplyStatusChange(profile, prev, next)
		if adjusted.WatchedMovies == profile.WatchedMovies && adjusted.WatchlistMovies == profile.WatchlistMovies {
			return nil
		}
		return tx.Model(&models.UserProfile{}).
			Where("id = ?", profile.ID).
			Updates(map[string]any{
				"watched_movies":   adjusted.WatchedMovies,
				"watchlist_movies": adjusted.WatchlistMovies,
			}).Error
	})

	return prev, err
}
