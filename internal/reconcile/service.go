package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/filmatch/filmatch-backend/internal/profiles"
	"github.com/filmatch/filmatch-backend/pkg/config"
	"github.com/filmatch/filmatch-backend/pkg/db/models"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/filmatch/filmatch-backend/pkg/logger"
	"github.com/filmatch/filmatch-backend/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// OnboardingState is the reconciliation verdict for one user at session start.
type OnboardingState struct {
	Completed bool                         `json:"completed"`
	LocalFlag bool                         `json:"local_flag"`
	Seed      *profiles.PreferenceSnapshot `json:"seed,omitempty"`
}

// Service decides onboarding completion and commits preference sets.
type Service interface {
	ResolveOnboardingState(ctx context.Context, userID uuid.UUID) (OnboardingState, error)
	CommitPreferences(ctx context.Context, userID uuid.UUID, favorites []profiles.FavoriteInput, recentWatches []profiles.RecentWatchInput, genreRatings []profiles.GenreRatingInput) error
	UpdatePreferences(ctx context.Context, userID uuid.UUID, favorites []profiles.FavoriteInput, recentWatches []profiles.RecentWatchInput, genreRatings []profiles.GenreRatingInput) error
}

type profileStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateOnboardingData(ctx context.Context, userID uuid.UUID, favorites []profiles.FavoriteInput, recentWatches []profiles.RecentWatchInput, genreRatings []profiles.GenreRatingInput) error
	UpdatePreferences(ctx context.Context, userID uuid.UUID, favorites []profiles.FavoriteInput, recentWatches []profiles.RecentWatchInput, genreRatings []profiles.GenreRatingInput) error
}

type flagStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	OnboardingFlagKey(userID string) string
	OnboardingSnapshotKey(userID string) string
}

type service struct {
	profiles profileStore
	flags    flagStore
	cfg      config.OnboardingConfig
	logg     *logger.Logger
	metrics  *metrics.AppMetrics
}

// ServiceParams groups dependencies for the reconciler.
type ServiceParams struct {
	Profiles profileStore
	Flags    flagStore
	Config   config.OnboardingConfig
	Logger   *logger.Logger
	Metrics  *metrics.AppMetrics
}

// NewService builds a reconciler with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	if params.Flags == nil {
		return nil, fmt.Errorf("flag store is required")
	}
	return &service{
		profiles: params.Profiles,
		flags:    params.Flags,
		cfg:      params.Config,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// ResolveOnboardingState queries the remote profile first and mirrors a
// completed snapshot locally. Read failures never propagate: the safe default
// is to route the user back through onboarding.
func (s *service) ResolveOnboardingState(ctx context.Context, userID uuid.UUID) (OnboardingState, error) {
	if userID == uuid.Nil {
		return OnboardingState{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil && profile.OnboardingCompleted:
		snapshot := profiles.SnapshotFromModel(profile)
		s.mirrorSnapshot(ctx, userID, snapshot, true)
		return OnboardingState{Completed: true, Seed: &snapshot}, nil

	case err == nil || errors.Is(err, gorm.ErrRecordNotFound):
		return OnboardingState{LocalFlag: s.readLocalFlag(ctx, userID)}, nil

	default:
		s.metrics.IncReconcileFallback()
		if s.logg != nil {
			s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "onboarding state read failed, routing to wizard")
		}
		return OnboardingState{}, nil
	}
}

// CommitPreferences validates the collected set, persists it remotely with the
// completion flag raised, and mirrors the snapshot into the flag store. A
// remote failure fails the whole operation; a mirror failure does not.
func (s *service) CommitPreferences(ctx context.Context, userID uuid.UUID, favorites []profiles.FavoriteInput, recentWatches []profiles.RecentWatchInput, genreRatings []profiles.GenreRatingInput) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if err := validatePreferences(s.cfg, favorites, recentWatches, genreRatings); err != nil {
		return err
	}

	if err := s.profiles.UpdateOnboardingData(ctx, userID, favorites, recentWatches, genreRatings); err != nil {
		return pkgerrors.Persistence(pkgerrors.StageWrite, err, "commit preferences")
	}

	snapshot := profiles.PreferenceSnapshot{
		Favorites:     favorites,
		RecentWatches: recentWatches,
		GenreRatings:  genreRatings,
		CommittedAt:   time.Now().UTC(),
	}
	s.mirrorSnapshot(ctx, userID, snapshot, true)

	s.metrics.IncOnboardingCompleted()
	return nil
}

// UpdatePreferences persists an edited set without touching the completion flag.
func (s *service) UpdatePreferences(ctx context.Context, userID uuid.UUID, favorites []profiles.FavoriteInput, recentWatches []profiles.RecentWatchInput, genreRatings []profiles.GenreRatingInput) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if err := validatePreferences(s.cfg, favorites, recentWatches, genreRatings); err != nil {
		return err
	}

	if err := s.profiles.UpdatePreferences(ctx, userID, favorites, recentWatches, genreRatings); err != nil {
		return pkgerrors.Persistence(pkgerrors.StageWrite, err, "update preferences")
	}

	snapshot := profiles.PreferenceSnapshot{
		Favorites:     favorites,
		RecentWatches: recentWatches,
		GenreRatings:  genreRatings,
		CommittedAt:   time.Now().UTC(),
	}
	s.mirrorSnapshot(ctx, userID, snapshot, false)
	return nil
}

func (s *service) readLocalFlag(ctx context.Context, userID uuid.UUID) bool {
	value, err := s.flags.Get(ctx, s.flags.OnboardingFlagKey(userID.String()))
	if err != nil {
		return false
	}
	return value == "true"
}

// mirrorSnapshot writes the local cache copies. Failures are warn-logged only:
// the remote store is the durable source of truth.
func (s *service) mirrorSnapshot(ctx context.Context, userID uuid.UUID, snapshot profiles.PreferenceSnapshot, setFlag bool) {
	ttl := s.cfg.SnapshotCacheTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	var errs []error
	if setFlag {
		if err := s.flags.Set(ctx, s.flags.OnboardingFlagKey(userID.String()), "true", ttl); err != nil {
			errs = append(errs, err)
		}
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		errs = append(errs, err)
	} else if err := s.flags.Set(ctx, s.flags.OnboardingSnapshotKey(userID.String()), string(payload), ttl); err != nil {
		errs = append(errs, err)
	}

	if combined := multierr.Combine(errs...); combined != nil {
		s.warnMirror(ctx, userID, combined)
	}
}

func (s *service) warnMirror(ctx context.Context, userID uuid.UUID, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"user_id": userID.String(), "error": err.Error()})
	s.logg.Warn(ctx, "onboarding snapshot mirror failed")
}
