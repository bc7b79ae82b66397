package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteMovie is one of the up-to-four favorites a profile carries. Titles
// are unique within a profile.
type FavoriteMovie struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID uuid.UUID `gorm:"column:profile_id;type:uuid;not null;index:favorite_movies_profile_id_idx;uniqueIndex:favorite_movies_profile_title_key"`
	MovieID   int64     `gorm:"column:movie_id;not null"`
	Title     string    `gorm:"type:text;not null;uniqueIndex:favorite_movies_profile_title_key"`
	Year      int       `gorm:"column:year;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
