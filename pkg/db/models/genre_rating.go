package models

import (
	"time"

	"github.com/filmatch/filmatch-backend/pkg/enums"
	"github.com/google/uuid"
)

// GenreRating pairs a genre with a 0-5 rating. Zero is a deliberate
// "not interested", distinct from the row being absent.
type GenreRating struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID uuid.UUID   `gorm:"column:profile_id;type:uuid;not null;index:genre_ratings_profile_id_idx;uniqueIndex:genre_ratings_profile_genre_key"`
	Genre     enums.Genre `gorm:"type:text;not null;uniqueIndex:genre_ratings_profile_genre_key"`
	Rating    int         `gorm:"column:rating;not null;default:0"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
