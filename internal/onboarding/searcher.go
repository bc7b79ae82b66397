package onboarding

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filmatch/filmatch-backend/internal/catalog"
	"github.com/filmatch/filmatch-backend/pkg/logger"
)

// minSearchQuery is the shortest query we send upstream. Shorter input clears
// the result list without a network call.
const minSearchQuery = 2

type movieSearcher interface {
	Search(ctx context.Context, query string, page int) ([]catalog.MovieRecord, error)
}

// Searcher debounces per-user wizard searches. Only the latest query a user
// typed is ever dispatched, and a late response for a superseded query is
// dropped instead of overwriting newer results.
type Searcher struct {
	client   movieSearcher
	debounce time.Duration
	logg     *logger.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*searchSession
}

type searchSession struct {
	timer   *time.Timer
	seq     uint64
	query   string
	results []catalog.MovieRecord
}

func NewSearcher(client movieSearcher, debounce time.Duration, logg *logger.Logger) *Searcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Searcher{
		client:   client,
		debounce: debounce,
		logg:     logg,
		sessions: make(map[uuid.UUID]*searchSession),
	}
}

// SetQuery records the user's latest input and schedules a single dispatch
// after the debounce window. Each call supersedes any pending dispatch.
func (s *Searcher) SetQuery(userID uuid.UUID, query string) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[userID]
	if sess == nil {
		sess = &searchSession{}
		s.sessions[userID] = sess
	}
	sess.seq++
	if sess.timer != nil {
		sess.timer.Stop()
		sess.timer = nil
	}
	sess.query = query

	if len(query) < minSearchQuery {
		sess.results = nil
		return
	}

	mySeq := sess.seq
	sess.timer = time.AfterFunc(s.debounce, func() {
		s.dispatch(userID, query, mySeq)
	})
}

// Results returns the user's current query and the results applied so far.
// Results may lag the query while a dispatch is pending.
func (s *Searcher) Results(userID uuid.UUID) (string, []catalog.MovieRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[userID]
	if sess == nil {
		return "", nil
	}
	return sess.query, sess.results
}

// Clear cancels any pending dispatch and forgets the user's session. Called
// when the wizard finishes or restarts.
func (s *Searcher) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.sessions[userID]; sess != nil && sess.timer != nil {
		sess.timer.Stop()
	}
	delete(s.sessions, userID)
}

func (s *Searcher) dispatch(userID uuid.UUID, query string, mySeq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := s.client.Search(ctx, query, 1)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"user_id": userID.String(),
				"query":   query,
				"error":   err.Error(),
			}), "wizard search failed")
		}
		results = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[userID]
	if sess == nil || sess.seq != mySeq {
		return
	}
	sess.results = results
}
