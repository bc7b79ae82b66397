package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/filmatch/filmatch-backend/internal/catalog"
	"github.com/filmatch/filmatch-backend/internal/profiles"
	"github.com/filmatch/filmatch-backend/internal/reconcile"
	"github.com/filmatch/filmatch-backend/pkg/config"
	"github.com/filmatch/filmatch-backend/pkg/enums"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/filmatch/filmatch-backend/pkg/logger"
)

// SearchView is the wizard's search pane: the latest query plus whatever
// results have been applied for it so far.
type SearchView struct {
	Query   string                `json:"query"`
	Results []catalog.MovieRecord `json:"results"`
}

// Service runs the three step onboarding wizard. State lives server side so a
// user can resume mid wizard from any device.
type Service interface {
	Start(ctx context.Context, userID uuid.UUID) (State, error)
	Get(ctx context.Context, userID uuid.UUID) (State, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, input profiles.FavoriteInput) (State, error)
	RemoveFavorite(ctx context.Context, userID uuid.UUID, title string) (State, error)
	SelectRecentWatch(ctx context.Context, userID uuid.UUID, pending PendingWatch) (State, error)
	ConfirmRecentWatch(ctx context.Context, userID uuid.UUID, rating int) (State, error)
	CancelRecentWatch(ctx context.Context, userID uuid.UUID) (State, error)
	RemoveRecentWatch(ctx context.Context, userID uuid.UUID, title string) (State, error)
	RateGenre(ctx context.Context, userID uuid.UUID, genre enums.Genre, rating int) (State, error)
	Advance(ctx context.Context, userID uuid.UUID) (State, error)
	Complete(ctx context.Context, userID uuid.UUID) (State, error)
	SetSearchQuery(ctx context.Context, userID uuid.UUID, query string) (State, error)
	Search(ctx context.Context, userID uuid.UUID) (SearchView, error)
}

type stateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	WizardStateKey(userID string) string
}

type service struct {
	states     stateStore
	reconciler reconcile.Service
	searcher   *Searcher
	cfg        config.OnboardingConfig
	logg       *logger.Logger

	busyMu sync.Mutex
	busy   map[uuid.UUID]bool
}

// ServiceParams groups dependencies for the wizard service.
type ServiceParams struct {
	States     stateStore
	Reconciler reconcile.Service
	Searcher   *Searcher
	Config     config.OnboardingConfig
	Logger     *logger.Logger
}

// NewService builds the wizard with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.States == nil {
		return nil, fmt.Errorf("state store is required")
	}
	if params.Reconciler == nil {
		return nil, fmt.Errorf("reconciler is required")
	}
	if params.Searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	return &service{
		states:     params.States,
		reconciler: params.Reconciler,
		searcher:   params.Searcher,
		cfg:        params.Config,
		logg:       params.Logger,
		busy:       make(map[uuid.UUID]bool),
	}, nil
}

// Start returns the in-progress wizard when one exists, otherwise opens a
// fresh one. A user who already completed onboarding gets their committed
// preferences preloaded so re-running the wizard edits rather than erases.
func (s *service) Start(ctx context.Context, userID uuid.UUID) (State, error) {
	if userID == uuid.Nil {
		return State{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	state, err := s.loadState(ctx, userID)
	if err == nil {
		return state, nil
	}
	if !isStateMissing(err) {
		return State{}, err
	}

	resolved, err := s.reconciler.ResolveOnboardingState(ctx, userID)
	if err != nil {
		return State{}, err
	}
	state = NewState(resolved.Seed)
	if err := s.saveState(ctx, userID, state); err != nil {
		return State{}, err
	}
	return state, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (State, error) {
	if userID == uuid.Nil {
		return State{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	return s.loadState(ctx, userID)
}

func (s *service) AddFavorite(ctx context.Context, userID uuid.UUID, input profiles.FavoriteInput) (State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		return state.AddFavorite(s.cfg, input)
	})
}

func (s *service) RemoveFavorite(ctx context.Context, userID uuid.UUID, title string) (State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.RemoveFavorite(title)
		return nil
	})
}

func (s *service) SelectRecentWatch(ctx context.Context, userID uuid.UUID, pending PendingWatch) (State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		return state.SelectRecentWatch(s.cfg, pending)
	})
}

func (s *service) ConfirmRecentWatch(ctx context.Context, userID uuid.UUID, rating int) (State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		return state.ConfirmRecentWatch(s.cfg, rating)
	})
}

func (s *service) CancelRecentWatch(ctx context.Context, userID uuid.UUID) (State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.CancelRecentWatch()
		return nil
	})
}

func (s *service) RemoveRecentWatch(ctx context.Context, userID uuid.UUID, title string) (State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.RemoveRecentWatch(title)
		return nil
	})
}

func (s *service) RateGenre(ctx context.Context, userID uuid.UUID, genre enums.Genre, rating int) (State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		return state.RateGenre(genre, rating)
	})
}

func (s *service) Advance(ctx context.Context, userID uuid.UUID) (State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		return state.Advance(s.cfg)
	})
}

// Complete commits the collected preferences through the reconciler. The
// stored wizard state survives a failed commit so the user can retry without
// losing anything; it is deleted only after the commit lands. A second submit
// racing the first is rejected instead of committing twice.
func (s *service) Complete(ctx context.Context, userID uuid.UUID) (State, error) {
	if userID == uuid.Nil {
		return State{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	if !s.acquireBusy(userID) {
		return State{}, pkgerrors.New(pkgerrors.CodeConflict, "submission already in progress")
	}
	defer s.releaseBusy(userID)

	state, err := s.loadState(ctx, userID)
	if err != nil {
		return State{}, err
	}
	if state.Step != StepGenreRatings {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "finish the earlier steps first")
	}
	if ok, reason := state.CanProceed(s.cfg); !ok {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, reason)
	}

	err = s.reconciler.CommitPreferences(ctx, userID, state.Favorites, state.RecentWatches, state.GenreRatings)
	if err != nil {
		return State{}, err
	}

	state.Step = StepComplete
	state.Pending = nil
	state.SearchQuery = ""
	s.searcher.Clear(userID)
	if err := s.states.Del(ctx, s.states.WizardStateKey(userID.String())); err != nil && s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"user_id": userID.String(), "error": err.Error()})
		s.logg.Warn(ctx, "wizard state cleanup failed")
	}
	return state, nil
}

// SetSearchQuery records the user's typing and mirrors the query into the
// stored state. Dispatch is debounced inside the searcher.
func (s *service) SetSearchQuery(ctx context.Context, userID uuid.UUID, query string) (State, error) {
	state, err := s.mutate(ctx, userID, func(state *State) error {
		state.SearchQuery = query
		return nil
	})
	if err != nil {
		return State{}, err
	}
	s.searcher.SetQuery(userID, query)
	return state, nil
}

func (s *service) Search(ctx context.Context, userID uuid.UUID) (SearchView, error) {
	if userID == uuid.Nil {
		return SearchView{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	query, results := s.searcher.Results(userID)
	return SearchView{Query: query, Results: results}, nil
}

func (s *service) mutate(ctx context.Context, userID uuid.UUID, apply func(*State) error) (State, error) {
	if userID == uuid.Nil {
		return State{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	state, err := s.loadState(ctx, userID)
	if err != nil {
		return State{}, err
	}
	if state.Step == StepComplete {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "onboarding already complete")
	}
	if err := apply(&state); err != nil {
		return State{}, err
	}
	if err := s.saveState(ctx, userID, state); err != nil {
		return State{}, err
	}
	return state, nil
}

func (s *service) loadState(ctx context.Context, userID uuid.UUID) (State, error) {
	raw, err := s.states.Get(ctx, s.states.WizardStateKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return State{}, pkgerrors.New(pkgerrors.CodeNotFound, "onboarding not started")
		}
		return State{}, pkgerrors.Persistence(pkgerrors.StageRead, err, "load wizard state")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, pkgerrors.Persistence(pkgerrors.StageRead, err, "decode wizard state")
	}
	return state, nil
}

func (s *service) saveState(ctx context.Context, userID uuid.UUID, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Persistence(pkgerrors.StageWrite, err, "encode wizard state")
	}

	ttl := s.cfg.SnapshotCacheTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if err := s.states.Set(ctx, s.states.WizardStateKey(userID.String()), string(payload), ttl); err != nil {
		return pkgerrors.Persistence(pkgerrors.StageWrite, err, "save wizard state")
	}
	return nil
}

func (s *service) acquireBusy(userID uuid.UUID) bool {
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	if s.busy[userID] {
		return false
	}
	s.busy[userID] = true
	return true
}

func (s *service) releaseBusy(userID uuid.UUID) {
	s.busyMu.Lock()
	delete(s.busy, userID)
	s.busyMu.Unlock()
}

func isStateMissing(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeNotFound
}
