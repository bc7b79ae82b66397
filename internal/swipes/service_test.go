package swipes

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/filmatch/filmatch-backend/pkg/enums"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/filmatch/filmatch-backend/pkg/pagination"
)

type stubSwipeStore struct {
	candidates  []models.UserProfile
	swipes      map[string]*models.Swipe
	rightSwipes map[string]bool
	matches     []models.Match
	gotLimit    int
	gotCursor   *pagination.Cursor
}

func newStubSwipeStore() *stubSwipeStore {
	return &stubSwipeStore{
		swipes:      make(map[string]*models.Swipe),
		rightSwipes: make(map[string]bool),
	}
}

func pairKey(a, b uuid.UUID) string {
	return a.String() + "|" + b.String()
}

func (s *stubSwipeStore) ListCandidates(_ context.Context, _ uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.UserProfile, error) {
	s.gotLimit = limit
	s.gotCursor = cursor
	if limit > len(s.candidates) {
		limit = len(s.candidates)
	}
	return s.candidates[:limit], nil
}

func (s *stubSwipeStore) GetSwipe(_ context.Context, userID, targetID uuid.UUID) (*models.Swipe, error) {
	swipe, ok := s.swipes[pairKey(userID, targetID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return swipe, nil
}

func (s *stubSwipeStore) CreateSwipe(_ context.Context, swipe *models.Swipe) error {
	s.swipes[pairKey(swipe.UserID, swipe.TargetID)] = swipe
	return nil
}

func (s *stubSwipeStore) HasRightSwipe(_ context.Context, userID, targetID uuid.UUID) (bool, error) {
	return s.rightSwipes[pairKey(userID, targetID)], nil
}

func (s *stubSwipeStore) CreateMatch(_ context.Context, match *models.Match) error {
	s.matches = append(s.matches, *match)
	return nil
}

func (s *stubSwipeStore) ListMatches(_ context.Context, userID uuid.UUID) ([]models.Match, error) {
	var out []models.Match
	for _, match := range s.matches {
		if match.UserAID == userID || match.UserBID == userID {
			out = append(out, match)
		}
	}
	return out, nil
}

type fixedScorer struct {
	compatibility int
	mutual        bool
}

func (f fixedScorer) Score(_, _ uuid.UUID) (int, bool) {
	return f.compatibility, f.mutual
}

func newTestSwipeService(t *testing.T, store *stubSwipeStore, scorer Scorer) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: store, Scorer: scorer})
	if err != nil {
		t.Fatalf("building swipe service: %v", err)
	}
	return svc
}

func expectSwipeCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestSwipeValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestSwipeService(t, newStubSwipeStore(), fixedScorer{})
	userID := uuid.New()

	_, err := svc.Swipe(ctx, uuid.Nil, uuid.New(), enums.SwipeDirectionLeft)
	expectSwipeCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Swipe(ctx, userID, uuid.Nil, enums.SwipeDirectionLeft)
	expectSwipeCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Swipe(ctx, userID, userID, enums.SwipeDirectionLeft)
	expectSwipeCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Swipe(ctx, userID, uuid.New(), enums.SwipeDirection("up"))
	expectSwipeCode(t, err, pkgerrors.CodeValidation)
}

func TestSwipeLeftNeverMatches(t *testing.T) {
	ctx := context.Background()
	store := newStubSwipeStore()
	svc := newTestSwipeService(t, store, fixedScorer{compatibility: 99, mutual: true})
	userID, targetID := uuid.New(), uuid.New()

	result, err := svc.Swipe(ctx, userID, targetID, enums.SwipeDirectionLeft)
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if result.Matched || result.MatchID != nil {
		t.Fatalf("a left swipe must not match: %+v", result)
	}
	if result.Compatibility != 0 {
		t.Fatalf("a left swipe carries no compatibility, got %d", result.Compatibility)
	}
	if len(store.matches) != 0 {
		t.Fatalf("unexpected match rows %+v", store.matches)
	}
}

func TestSwipeRightMutualCreatesSortedMatch(t *testing.T) {
	ctx := context.Background()
	store := newStubSwipeStore()
	svc := newTestSwipeService(t, store, fixedScorer{compatibility: 87, mutual: true})
	userID, targetID := uuid.New(), uuid.New()

	result, err := svc.Swipe(ctx, userID, targetID, enums.SwipeDirectionRight)
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if !result.Matched || result.MatchID == nil {
		t.Fatalf("expected a match, got %+v", result)
	}
	if result.Compatibility != 87 {
		t.Fatalf("expected scorer compatibility, got %d", result.Compatibility)
	}
	if len(store.matches) != 1 {
		t.Fatalf("expected one match row, got %d", len(store.matches))
	}
	match := store.matches[0]
	if bytes.Compare(match.UserAID[:], match.UserBID[:]) >= 0 {
		t.Fatalf("match pair must be sorted, got %s / %s", match.UserAID, match.UserBID)
	}
}

func TestSwipeRightReciprocalMatchesDespiteScorer(t *testing.T) {
	ctx := context.Background()
	store := newStubSwipeStore()
	userID, targetID := uuid.New(), uuid.New()
	store.rightSwipes[pairKey(targetID, userID)] = true
	svc := newTestSwipeService(t, store, fixedScorer{compatibility: 60, mutual: false})

	result, err := svc.Swipe(ctx, userID, targetID, enums.SwipeDirectionRight)
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if !result.Matched {
		t.Fatal("a reciprocal right swipe must always match")
	}
}

func TestSwipeTwiceIsConflict(t *testing.T) {
	ctx := context.Background()
	store := newStubSwipeStore()
	svc := newTestSwipeService(t, store, fixedScorer{})
	userID, targetID := uuid.New(), uuid.New()

	if _, err := svc.Swipe(ctx, userID, targetID, enums.SwipeDirectionLeft); err != nil {
		t.Fatalf("first swipe: %v", err)
	}
	_, err := svc.Swipe(ctx, userID, targetID, enums.SwipeDirectionRight)
	expectSwipeCode(t, err, pkgerrors.CodeConflict)
}

func TestCandidatesPaginates(t *testing.T) {
	ctx := context.Background()
	store := newStubSwipeStore()
	base := time.Now().UTC()
	for i := 0; i < 4; i++ {
		store.candidates = append(store.candidates, models.UserProfile{
			ID:                  uuid.New(),
			UserID:              uuid.New(),
			DisplayName:         "viewer",
			OnboardingCompleted: true,
			CreatedAt:           base.Add(-time.Duration(i) * time.Minute),
		})
	}
	svc := newTestSwipeService(t, store, fixedScorer{})

	page, next, err := svc.Candidates(ctx, uuid.New(), pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(page))
	}
	if next == "" {
		t.Fatal("expected a next cursor with a buffered fourth row")
	}
	if store.gotLimit != 4 {
		t.Fatalf("expected buffered limit 4, got %d", store.gotLimit)
	}

	cursor, err := pagination.ParseCursor(next)
	if err != nil {
		t.Fatalf("parsing next cursor: %v", err)
	}
	if cursor.ID != store.candidates[2].ID {
		t.Fatal("next cursor should point at the last returned row")
	}
}

func TestCandidatesRejectsBadCursor(t *testing.T) {
	svc := newTestSwipeService(t, newStubSwipeStore(), fixedScorer{})

	_, _, err := svc.Candidates(context.Background(), uuid.New(), pagination.Params{Cursor: "not-a-cursor!!!"})
	expectSwipeCode(t, err, pkgerrors.CodeValidation)
}

func TestMatchesReportsPartner(t *testing.T) {
	ctx := context.Background()
	store := newStubSwipeStore()
	userID, partnerID := uuid.New(), uuid.New()
	userA, userB := orderPair(userID, partnerID)
	store.matches = append(store.matches, models.Match{
		ID:            uuid.New(),
		UserAID:       userA,
		UserBID:       userB,
		Compatibility: 72,
	})
	svc := newTestSwipeService(t, store, fixedScorer{})

	matches, err := svc.Matches(ctx, userID)
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	if matches[0].PartnerID != partnerID {
		t.Fatalf("expected partner %s, got %s", partnerID, matches[0].PartnerID)
	}
}

func TestRandomScorerStaysInRange(t *testing.T) {
	scorer := NewRandomScorer()
	for i := 0; i < 200; i++ {
		compatibility, _ := scorer.Score(uuid.New(), uuid.New())
		if compatibility < 50 || compatibility > 100 {
			t.Fatalf("compatibility out of range: %d", compatibility)
		}
	}
}
