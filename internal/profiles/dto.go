package profiles

import (
	"time"

	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/filmatch/filmatch-backend/pkg/enums"
	"github.com/google/uuid"
)

// FavoriteInput is a favorite movie as collected from the wizard or editor.
type FavoriteInput struct {
	MovieID int64  `json:"movie_id"`
	Title   string `json:"title" validate:"required"`
	Year    int    `json:"year"`
}

// RecentWatchInput is a rated recent watch.
type RecentWatchInput struct {
	MovieID int64  `json:"movie_id"`
	Title   string `json:"title" validate:"required"`
	Year    int    `json:"year"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

// GenreRatingInput pairs a genre with a 0-5 rating. Zero is a deliberate
// "not interested", not an absence.
type GenreRatingInput struct {
	Genre  enums.Genre `json:"genre" validate:"required"`
	Rating int         `json:"rating" validate:"min=0,max=5"`
}

// PreferenceSnapshot is the serializable preference set mirrored into the
// flag store and used to seed the wizard on reset.
type PreferenceSnapshot struct {
	Favorites     []FavoriteInput    `json:"favorites"`
	RecentWatches []RecentWatchInput `json:"recent_watches"`
	GenreRatings  []GenreRatingInput `json:"genre_ratings"`
	CommittedAt   time.Time          `json:"committed_at"`
}

// ProfileDTO is the API projection of a user profile.
type ProfileDTO struct {
	ID                  uuid.UUID          `json:"id"`
	UserID              uuid.UUID          `json:"user_id"`
	Email               string             `json:"email"`
	DisplayName         string             `json:"display_name"`
	OnboardingCompleted bool               `json:"onboarding_completed"`
	WatchedMovies       int                `json:"watched_movies"`
	WatchlistMovies     int                `json:"watchlist_movies"`
	Favorites           []FavoriteInput    `json:"favorites"`
	RecentWatches       []RecentWatchInput `json:"recent_watches"`
	GenreRatings        []GenreRatingInput `json:"genre_ratings"`
	Stats               Stats              `json:"stats"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// FromModel projects a stored profile into its API shape.
func FromModel(profile *models.UserProfile) ProfileDTO {
	if profile == nil {
		return ProfileDTO{}
	}
	return ProfileDTO{
		ID:                  profile.ID,
		UserID:              profile.UserID,
		Email:               profile.Email,
		DisplayName:         profile.DisplayName,
		OnboardingCompleted: profile.OnboardingCompleted,
		WatchedMovies:       profile.WatchedMovies,
		WatchlistMovies:     profile.WatchlistMovies,
		Favorites:           favoritesFromModels(profile.Favorites),
		RecentWatches:       recentWatchesFromModels(profile.RecentWatches),
		GenreRatings:        genreRatingsFromModels(profile.GenreRatings),
		Stats:               ComputeStats(profile),
		CreatedAt:           profile.CreatedAt,
		UpdatedAt:           profile.UpdatedAt,
	}
}

// SnapshotFromModel builds the serializable preference snapshot for a profile.
func SnapshotFromModel(profile *models.UserProfile) PreferenceSnapshot {
	if profile == nil {
		return PreferenceSnapshot{}
	}
	return PreferenceSnapshot{
		Favorites:     favoritesFromModels(profile.Favorites),
		RecentWatches: recentWatchesFromModels(profile.RecentWatches),
		GenreRatings:  genreRatingsFromModels(profile.GenreRatings),
		CommittedAt:   profile.UpdatedAt,
	}
}

func favoritesFromModels(rows []models.FavoriteMovie) []FavoriteInput {
	out := make([]FavoriteInput, 0, len(rows))
	for _, row := range rows {
		out = append(out, FavoriteInput{MovieID: row.MovieID, Title: row.Title, Year: row.Year})
	}
	return out
}

func recentWatchesFromModels(rows []models.RecentWatch) []RecentWatchInput {
	out := make([]RecentWatchInput, 0, len(rows))
	for _, row := range rows {
		out = append(out, RecentWatchInput{MovieID: row.MovieID, Title: row.Title, Year: row.Year, Rating: row.Rating})
	}
	return out
}

func genreRatingsFromModels(rows []models.GenreRating) []GenreRatingInput {
	out := make([]GenreRatingInput, 0, len(rows))
	for _, row := range rows {
		out = append(out, GenreRatingInput{Genre: row.Genre, Rating: row.Rating})
	}
	return out
}
