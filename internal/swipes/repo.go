package swipes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/filmatch/filmatch-backend/pkg/enums"
	"github.com/filmatch/filmatch-backend/pkg/pagination"
)

// Repository persists swipes and matches.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListCandidates returns onboarding-complete profiles the user has not swiped
// on yet, newest first, using keyset pagination. Callers pass a limit that
// already includes the buffer row.
func (r *Repository) ListCandidates(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.UserProfile, error) {
	query := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("onboarding_completed = ?", true).
		Where("user_id <> ?", userID).
		Where("user_id NOT IN (?)", r.db.Model(&models.Swipe{}).Select("target_id").Where("user_id = ?", userID)).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.UserProfile
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSwipe returns the user's swipe on a target, if any.
func (r *Repository) GetSwipe(ctx context.Context, userID, targetID uuid.UUID) (*models.Swipe, error) {
	var swipe models.Swipe
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		First(&swipe).Error
	if err != nil {
		return nil, err
	}
	return &swipe, nil
}

// CreateSwipe inserts a swipe row. The unique index on (user_id, target_id)
// rejects a second swipe at the same target.
func (r *Repository) CreateSwipe(ctx context.Context, swipe *models.Swipe) error {
	return r.db.WithContext(ctx).Create(swipe).Error
}

// HasRightSwipe reports whether userID has already right-swiped targetID.
func (r *Repository) HasRightSwipe(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Swipe{}).
		Where("user_id = ? AND target_id = ? AND direction = ?", userID, targetID, enums.SwipeDirectionRight).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateMatch inserts a match row.
func (r *Repository) CreateMatch(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

// GetMatch loads one match by id.
func (r *Repository) GetMatch(ctx context.Context, matchID uuid.UUID) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).Where("id = ?", matchID).First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListMatches returns every match the user is part of, newest first.
func (r *Repository) ListMatches(ctx context.Context, userID uuid.UUID) ([]models.Match, error) {
	var rows []models.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
