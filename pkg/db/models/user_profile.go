package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the per-user taste document. Counters are derived values and
// must never go below zero; the profiles package owns the adjustment rules.
type UserProfile struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Email               string          `gorm:"type:text;not null"`
	DisplayName         string          `gorm:"column:display_name;not null"`
	OnboardingCompleted bool            `gorm:"column:onboarding_completed;not null;default:false"`
	WatchedMovies       int             `gorm:"column:watched_movies;not null;default:0"`
	WatchlistMovies     int             `gorm:"column:watchlist_movies;not null;default:0"`
	Favorites           []FavoriteMovie `gorm:"foreignKey:ProfileID"`
	RecentWatches       []RecentWatch   `gorm:"foreignKey:ProfileID"`
	GenreRatings        []GenreRating   `gorm:"foreignKey:ProfileID"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
