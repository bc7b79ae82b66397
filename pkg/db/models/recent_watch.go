package models

import (
	"time"

	"github.com/google/uuid"
)

// RecentWatch is a recently watched movie with a mandatory 1-5 star rating.
type RecentWatch struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID uuid.UUID `gorm:"column:profile_id;type:uuid;not null;index:recent_watches_profile_id_idx;uniqueIndex:recent_watches_profile_title_key"`
	MovieID   int64     `gorm:"column:movie_id;not null"`
	Title     string    `gorm:"type:text;not null;uniqueIndex:recent_watches_profile_title_key"`
	Year      int       `gorm:"column:year;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
