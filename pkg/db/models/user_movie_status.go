package models

import (
	"time"

	"github.com/filmatch/filmatch-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserMovieStatus is the per-user, per-movie watched/watchlist marker plus an
// optional star rating.
type UserMovieStatus struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:user_movie_statuses_user_id_idx;uniqueIndex:user_movie_statuses_user_movie_key"`
	MovieID   int64             `gorm:"column:movie_id;not null;uniqueIndex:user_movie_statuses_user_movie_key"`
	Status    enums.MovieStatus `gorm:"type:text;not null;default:'none'"`
	Rating    *int              `gorm:"column:rating"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
