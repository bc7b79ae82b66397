package swipes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/pkg/db"
	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/filmatch/filmatch-backend/pkg/enums"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/filmatch/filmatch-backend/pkg/logger"
	"github.com/filmatch/filmatch-backend/pkg/metrics"
	"github.com/filmatch/filmatch-backend/pkg/pagination"
)

// CandidateDTO is one profile in the swipe feed.
type CandidateDTO struct {
	UserID          uuid.UUID `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	WatchedMovies   int       `json:"watched_movies"`
	WatchlistMovies int       `json:"watchlist_movies"`
	CreatedAt       time.Time `json:"created_at"`
}

// SwipeResult reports what a swipe produced.
type SwipeResult struct {
	Direction     enums.SwipeDirection `json:"direction"`
	Compatibility int                  `json:"compatibility"`
	Matched       bool                 `json:"matched"`
	MatchID       *uuid.UUID           `json:"match_id,omitempty"`
}

// MatchDTO is one match from the user's point of view.
type MatchDTO struct {
	ID            uuid.UUID `json:"id"`
	PartnerID     uuid.UUID `json:"partner_id"`
	Compatibility int       `json:"compatibility"`
	CreatedAt     time.Time `json:"created_at"`
}

// Service runs the swipe feed and match creation.
type Service interface {
	Candidates(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]CandidateDTO, string, error)
	Swipe(ctx context.Context, userID, targetID uuid.UUID, direction enums.SwipeDirection) (SwipeResult, error)
	Matches(ctx context.Context, userID uuid.UUID) ([]MatchDTO, error)
}

type swipeStore interface {
	ListCandidates(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.UserProfile, error)
	GetSwipe(ctx context.Context, userID, targetID uuid.UUID) (*models.Swipe, error)
	CreateSwipe(ctx context.Context, swipe *models.Swipe) error
	HasRightSwipe(ctx context.Context, userID, targetID uuid.UUID) (bool, error)
	CreateMatch(ctx context.Context, match *models.Match) error
	ListMatches(ctx context.Context, userID uuid.UUID) ([]models.Match, error)
}

type service struct {
	repo    swipeStore
	scorer  Scorer
	metrics *metrics.AppMetrics
	logg    *logger.Logger
}

// ServiceParams groups dependencies for the swipe service.
type ServiceParams struct {
	Repo    swipeStore
	Scorer  Scorer
	Metrics *metrics.AppMetrics
	Logger  *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("swipe store is required")
	}
	if params.Scorer == nil {
		return nil, fmt.Errorf("scorer is required")
	}
	return &service{
		repo:    params.Repo,
		scorer:  params.Scorer,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

func (s *service) Candidates(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]CandidateDTO, string, error) {
	if userID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListCandidates(ctx, userID, pagination.LimitWithBuffer(limit), cursor)
	if err != nil {
		return nil, "", pkgerrors.Persistence(pkgerrors.StageRead, err, "list candidates")
	}

	page, next := pagination.TrimPage(rows, limit, func(profile models.UserProfile) pagination.Cursor {
		return pagination.Cursor{CreatedAt: profile.CreatedAt, ID: profile.ID}
	})

	out := make([]CandidateDTO, 0, len(page))
	for _, profile := range page {
		out = append(out, CandidateDTO{
			UserID:          profile.UserID,
			DisplayName:     profile.DisplayName,
			WatchedMovies:   profile.WatchedMovies,
			WatchlistMovies: profile.WatchlistMovies,
			CreatedAt:       profile.CreatedAt,
		})
	}
	return out, next, nil
}

func (s *service) Swipe(ctx context.Context, userID, targetID uuid.UUID, direction enums.SwipeDirection) (SwipeResult, error) {
	if userID == uuid.Nil {
		return SwipeResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if targetID == uuid.Nil {
		return SwipeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "target id is required")
	}
	if targetID == userID {
		return SwipeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "cannot swipe on yourself")
	}
	if !direction.IsValid() {
		return SwipeResult{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown direction %q", direction))
	}

	_, err := s.repo.GetSwipe(ctx, userID, targetID)
	switch {
	case err == nil:
		return SwipeResult{}, pkgerrors.New(pkgerrors.CodeConflict, "already swiped on this profile")
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return SwipeResult{}, pkgerrors.Persistence(pkgerrors.StageRead, err, "check existing swipe")
	}

	result := SwipeResult{Direction: direction}
	mutual := false
	if direction == enums.SwipeDirectionRight {
		compatibility, simulated := s.scorer.Score(userID, targetID)
		result.Compatibility = compatibility

		reciprocal, err := s.repo.HasRightSwipe(ctx, targetID, userID)
		if err != nil {
			return SwipeResult{}, pkgerrors.Persistence(pkgerrors.StageRead, err, "check reciprocal swipe")
		}
		mutual = reciprocal || simulated
	}

	swipe := models.Swipe{
		ID:            uuid.New(),
		UserID:        userID,
		TargetID:      targetID,
		Direction:     direction,
		Compatibility: result.Compatibility,
	}
	if err := s.repo.CreateSwipe(ctx, &swipe); err != nil {
		if db.IsUniqueViolation(err, "") {
			return SwipeResult{}, pkgerrors.New(pkgerrors.CodeConflict, "already swiped on this profile")
		}
		return SwipeResult{}, pkgerrors.Persistence(pkgerrors.StageWrite, err, "record swipe")
	}
	s.metrics.IncSwipe(string(direction))

	if mutual {
		userA, userB := orderPair(userID, targetID)
		match := models.Match{
			ID:            uuid.New(),
			UserAID:       userA,
			UserBID:       userB,
			Compatibility: result.Compatibility,
		}
		if err := s.repo.CreateMatch(ctx, &match); err != nil {
			return SwipeResult{}, pkgerrors.Persistence(pkgerrors.StageWrite, err, "record match")
		}
		s.metrics.IncMatch()
		if s.logg != nil {
			s.logg.Info(s.logg.WithMatchID(ctx, match.ID.String()), "match created")
		}
		result.Matched = true
		result.MatchID = &match.ID
	}

	return result, nil
}

func (s *service) Matches(ctx context.Context, userID uuid.UUID) ([]MatchDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	rows, err := s.repo.ListMatches(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Persistence(pkgerrors.StageRead, err, "list matches")
	}

	out := make([]MatchDTO, 0, len(rows))
	for _, match := range rows {
		partner := match.UserAID
		if partner == userID {
			partner = match.UserBID
		}
		out = append(out, MatchDTO{
			ID:            match.ID,
			PartnerID:     partner,
			Compatibility: match.Compatibility,
			CreatedAt:     match.CreatedAt,
		})
	}
	return out, nil
}

// orderPair sorts two user ids so the match pair is unique regardless of who
// swiped last.
func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) < 0 {
		return a, b
	}
	return b, a
}
