package models

import (
	"time"

	"github.com/filmatch/filmatch-backend/pkg/enums"
	"github.com/google/uuid"
)

// Swipe records one judgement of a candidate profile. A user swipes each
// target at most once.
type Swipe struct {
	ID            uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index:swipes_user_id_idx;uniqueIndex:swipes_user_target_key"`
	TargetID      uuid.UUID            `gorm:"column:target_id;type:uuid;not null;uniqueIndex:swipes_user_target_key"`
	Direction     enums.SwipeDirection `gorm:"type:text;not null"`
	Compatibility int                  `gorm:"column:compatibility;not null;default:0"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
}
