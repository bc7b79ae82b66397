package models

import (
	"time"

	"github.com/google/uuid"
)

// Match joins two mutually right-swiped users. UserAID always sorts before
// UserBID so the pair is unique regardless of who swiped last.
type Match struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserAID       uuid.UUID `gorm:"column:user_a_id;type:uuid;not null;index:matches_user_a_id_idx;uniqueIndex:matches_pair_key"`
	UserBID       uuid.UUID `gorm:"column:user_b_id;type:uuid;not null;index:matches_user_b_id_idx;uniqueIndex:matches_pair_key"`
	Compatibility int       `gorm:"column:compatibility;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
