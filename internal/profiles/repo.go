package profiles

import (
	"context"
	"time"

	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetProfile loads a profile with its preference collections.
func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}
	var profile models.UserProfile
	err := r.db.WithContext(ctx).
		Preload("Favorites").
		Preload("RecentWatches").
		Preload("GenreRatings").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateProfile inserts an empty profile for a freshly registered user.
func (r *Repository) CreateProfile(ctx context.Context, userID uuid.UUID, email, displayName string) (*models.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}
	profile := models.UserProfile{
		ID:          uuid.New(),
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
	}
	if err := r.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// HasCompletedOnboarding reports the stored completion flag.
func (r *Repository) HasCompletedOnboarding(ctx context.Context, userID uuid.UUID) (bool, error) {
	var completed bool
	err := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Select("onboarding_completed").
		Where("user_id = ?", userID).
		Scan(&completed).Error
	if err != nil {
		return false, err
	}
	return completed, nil
}

// UpdateOnboardingData replaces the preference collections and marks
// onboarding complete, transactionally.
func (r *Repository) UpdateOnboardingData(ctx context.Context, userID uuid.UUID, favorites []FavoriteInput, recentWatches []RecentWatchInput, genreRatings []GenreRatingInput) error {
	return r.replacePreferences(ctx, userID, favorites, recentWatches, genreRatings, true)
}

// UpdatePreferences replaces the preference collections without touching the
// completion flag.
func (r *Repository) UpdatePreferences(ctx context.Context, userID uuid.UUID, favorites []FavoriteInput, recentWatches []RecentWatchInput, genreRatings []GenreRatingInput) error {
	return r.replacePreferences(ctx, userID, favorites, recentWatches, genreRatings, false)
}

func (r *Repository) replacePreferences(ctx context.Context, userID uuid.UUID, favorites []FavoriteInput, recentWatches []RecentWatchInput, genreRatings []GenreRatingInput, markComplete bool) error {
	if userID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.UserProfile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return err
		}

		for _, table := range []any{&models.FavoriteMovie{}, &models.RecentWatch{}, &models.GenreRating{}} {
			if err := tx.Where("profile_id = ?", profile.ID).Delete(table).Error; err != nil {
				return err
			}
		}

		for _, fav := range favorites {
			row := models.FavoriteMovie{
				ID:        uuid.New(),
				ProfileID: profile.ID,
				MovieID:   fav.MovieID,
				Title:     fav.Title,
				Year:      fav.Year,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, watch := range recentWatches {
			row := models.RecentWatch{
				ID:        uuid.New(),
				ProfileID: profile.ID,
				MovieID:   watch.MovieID,
				Title:     watch.Title,
				Year:      watch.Year,
				Rating:    watch.Rating,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, rating := range genreRatings {
			row := models.GenreRating{
				ID:        uuid.New(),
				ProfileID: profile.ID,
				Genre:     rating.Genre,
				Rating:    rating.Rating,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		updates := map[string]any{"updated_at": time.Now().UTC()}
		if markComplete {
			updates["onboarding_completed"] = true
		}
		return tx.Model(&models.UserProfile{}).
			Where("id = ?", profile.ID).
			Updates(updates).Error
	})
}

// SaveCounters persists the two derived counters for a profile.
func (r *Repository) SaveCounters(ctx context.Context, profileID uuid.UUID, watched, watchlist int) error {
	return r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("id = ?", profileID).
		Updates(map[string]any{
			"watched_movies":   watched,
			"watchlist_movies": watchlist,
		}).Error
}
