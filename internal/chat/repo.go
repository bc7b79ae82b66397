package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/filmatch/filmatch-backend/pkg/pagination"
)

// Repository persists chat messages.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateMessage inserts one message.
func (r *Repository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListMessages returns a match's messages newest first using keyset
// pagination. The limit already includes the buffer row.
func (r *Repository) ListMessages(ctx context.Context, matchID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.ChatMessage, error) {
	query := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ChatMessage
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
