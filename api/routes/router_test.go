package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/filmatch/filmatch-backend/internal/auth"
	"github.com/filmatch/filmatch-backend/internal/catalog"
	"github.com/filmatch/filmatch-backend/internal/chat"
	"github.com/filmatch/filmatch-backend/internal/onboarding"
	"github.com/filmatch/filmatch-backend/internal/profiles"
	"github.com/filmatch/filmatch-backend/internal/reconcile"
	"github.com/filmatch/filmatch-backend/internal/statuses"
	"github.com/filmatch/filmatch-backend/internal/swipes"
	pkgAuth "github.com/filmatch/filmatch-backend/pkg/auth"
	"github.com/filmatch/filmatch-backend/pkg/auth/session"
	"github.com/filmatch/filmatch-backend/pkg/config"
	"github.com/filmatch/filmatch-backend/pkg/enums"
	"github.com/filmatch/filmatch-backend/pkg/logger"
	"github.com/filmatch/filmatch-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

// Register implements [auth.Service].
func (stubAuthService) Register(ctx context.Context, input auth.RegisterInput) (auth.AuthResult, error) {
	panic("unimplemented")
}

// Login implements [auth.Service].
func (stubAuthService) Login(ctx context.Context, email, password string) (auth.AuthResult, error) {
	panic("unimplemented")
}

// Refresh implements [auth.Service].
func (stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (auth.TokenPair, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubProfileService struct{}

func (stubProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (profiles.ProfileDTO, error) {
	return profiles.ProfileDTO{UserID: userID}, nil
}

func (stubProfileService) GetStats(ctx context.Context, userID uuid.UUID) (profiles.Stats, error) {
	return profiles.Stats{}, nil
}

type stubReconcileService struct{}

func (stubReconcileService) ResolveOnboardingState(ctx context.Context, userID uuid.UUID) (reconcile.OnboardingState, error) {
	return reconcile.OnboardingState{}, nil
}

// CommitPreferences implements [reconcile.Service].
func (stubReconcileService) CommitPreferences(ctx context.Context, userID uuid.UUID, favorites []profiles.FavoriteInput, recentWatches []profiles.RecentWatchInput, genreRatings []profiles.GenreRatingInput) error {
	panic("unimplemented")
}

// UpdatePreferences implements [reconcile.Service].
func (stubReconcileService) UpdatePreferences(ctx context.Context, userID uuid.UUID, favorites []profiles.FavoriteInput, recentWatches []profiles.RecentWatchInput, genreRatings []profiles.GenreRatingInput) error {
	panic("unimplemented")
}

type stubOnboardingService struct{}

func (stubOnboardingService) Start(ctx context.Context, userID uuid.UUID) (onboarding.State, error) {
	return onboarding.State{Step: onboarding.StepFavorites}, nil
}

func (stubOnboardingService) Get(ctx context.Context, userID uuid.UUID) (onboarding.State, error) {
	return onboarding.State{Step: onboarding.StepFavorites}, nil
}

// AddFavorite implements [onboarding.Service].
func (stubOnboardingService) AddFavorite(ctx context.Context, userID uuid.UUID, input profiles.FavoriteInput) (onboarding.State, error) {
	panic("unimplemented")
}

// RemoveFavorite implements [onboarding.Service].
func (stubOnboardingService) RemoveFavorite(ctx context.Context, userID uuid.UUID, title string) (onboarding.State, error) {
	panic("unimplemented")
}

// SelectRecentWatch implements [onboarding.Service].
func (stubOnboardingService) SelectRecentWatch(ctx context.Context, userID uuid.UUID, pending onboarding.PendingWatch) (onboarding.State, error) {
	panic("unimplemented")
}

// ConfirmRecentWatch implements [onboarding.Service].
func (stubOnboardingService) ConfirmRecentWatch(ctx context.Context, userID uuid.UUID, rating int) (onboarding.State, error) {
	panic("unimplemented")
}

// CancelRecentWatch implements [onboarding.Service].
func (stubOnboardingService) CancelRecentWatch(ctx context.Context, userID uuid.UUID) (onboarding.State, error) {
	panic("unimplemented")
}

// RemoveRecentWatch implements [onboarding.Service].
func (stubOnboardingService) RemoveRecentWatch(ctx context.Context, userID uuid.UUID, title string) (onboarding.State, error) {
	panic("unimplemented")
}

// RateGenre implements [onboarding.Service].
func (stubOnboardingService) RateGenre(ctx context.Context, userID uuid.UUID, genre enums.Genre, rating int) (onboarding.State, error) {
	panic("unimplemented")
}

// Advance implements [onboarding.Service].
func (stubOnboardingService) Advance(ctx context.Context, userID uuid.UUID) (onboarding.State, error) {
	panic("unimplemented")
}

// Complete implements [onboarding.Service].
func (stubOnboardingService) Complete(ctx context.Context, userID uuid.UUID) (onboarding.State, error) {
	panic("unimplemented")
}

// SetSearchQuery implements [onboarding.Service].
func (stubOnboardingService) SetSearchQuery(ctx context.Context, userID uuid.UUID, query string) (onboarding.State, error) {
	panic("unimplemented")
}

func (stubOnboardingService) Search(ctx context.Context, userID uuid.UUID) (onboarding.SearchView, error) {
	return onboarding.SearchView{}, nil
}

type stubStatusService struct{}

// SetStatus implements [statuses.Service].
func (stubStatusService) SetStatus(ctx context.Context, userID uuid.UUID, movieID int64, status enums.MovieStatus, rating *int) (statuses.StatusDTO, error) {
	panic("unimplemented")
}

func (stubStatusService) GetStatus(ctx context.Context, userID uuid.UUID, movieID int64) (statuses.StatusDTO, error) {
	return statuses.StatusDTO{MovieID: movieID, Status: enums.MovieStatusNone}, nil
}

func (stubStatusService) ListByStatus(ctx context.Context, userID uuid.UUID, status enums.MovieStatus) ([]statuses.StatusDTO, error) {
	return nil, nil
}

type stubSwipeService struct {
	candidates func(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]swipes.CandidateDTO, string, error)
}

func (s stubSwipeService) Candidates(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]swipes.CandidateDTO, string, error) {
	if s.candidates != nil {
		return s.candidates(ctx, userID, params)
	}
	return nil, "", nil
}

// Swipe implements [swipes.Service].
func (s stubSwipeService) Swipe(ctx context.Context, userID, targetID uuid.UUID, direction enums.SwipeDirection) (swipes.SwipeResult, error) {
	panic("unimplemented")
}

func (s stubSwipeService) Matches(ctx context.Context, userID uuid.UUID) ([]swipes.MatchDTO, error) {
	return nil, nil
}

type stubChatService struct{}

// SendMessage implements [chat.Service].
func (stubChatService) SendMessage(ctx context.Context, matchID, senderID uuid.UUID, body string) (chat.MessageDTO, error) {
	panic("unimplemented")
}

func (stubChatService) ListMessages(ctx context.Context, matchID, userID uuid.UUID, params pagination.Params) ([]chat.MessageDTO, string, error) {
	return nil, "", nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	catalogClient, err := catalog.NewClient(catalog.ClientParams{
		Config: config.TMDBConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:0"},
		Logger: logg,
	})
	if err != nil {
		t.Fatalf("build catalog client: %v", err)
	}
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil, // *redis.Client, unused with zero rate limits
		stubSessionChecker{},
		nil, // prometheus.Gatherer
		Services{
			Auth:       stubAuthService{},
			Profiles:   stubProfileService{},
			Reconcile:  stubReconcileService{},
			Onboarding: stubOnboardingService{},
			Catalog:    catalogClient,
			Statuses:   stubStatusService{},
			Swipes:     stubSwipeService{},
			Chat:       stubChatService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestOnboardingRoutesRequireAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	anon := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/start", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous wizard start got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/start", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed wizard start got %d", resp.Code)
	}
}

func TestRegisterRejectsBadJSON(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestSwipeCandidatesPassesPagination(t *testing.T) {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	catalogClient, err := catalog.NewClient(catalog.ClientParams{
		Config: config.TMDBConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:0"},
		Logger: logg,
	})
	if err != nil {
		t.Fatalf("build catalog client: %v", err)
	}

	var gotLimit int
	router := NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		stubSessionChecker{},
		nil,
		Services{
			Auth:       stubAuthService{},
			Profiles:   stubProfileService{},
			Reconcile:  stubReconcileService{},
			Onboarding: stubOnboardingService{},
			Catalog:    catalogClient,
			Statuses:   stubStatusService{},
			Swipes: stubSwipeService{
				candidates: func(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]swipes.CandidateDTO, string, error) {
					gotLimit = params.Limit
					return []swipes.CandidateDTO{{UserID: uuid.New()}}, "", nil
				},
			},
			Chat: stubChatService{},
		},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/swipes/candidates?limit=7", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for candidates got %d", resp.Code)
	}
	if gotLimit != 7 {
		t.Fatalf("expected limit 7 forwarded got %d", gotLimit)
	}
}

func TestChatRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches/"+uuid.NewString()+"/messages", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous chat list got %d", resp.Code)
	}
}
