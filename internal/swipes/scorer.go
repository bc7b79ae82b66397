package swipes

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scorer decides the compatibility percentage and mutual-match outcome for a
// right swipe.
type Scorer interface {
	Score(userID, targetID uuid.UUID) (compatibility int, mutual bool)
}

// RandomScorer is the placeholder scorer: compatibility is uniform in
// [50,100] and roughly one right swipe in three comes back mutual. Swap it for
// a taste-based scorer without touching the swipe flow.
type RandomScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomScorer() *RandomScorer {
	return &RandomScorer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *RandomScorer) Score(_, _ uuid.UUID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 50 + s.rng.Intn(51), s.rng.Float64() < 0.3
}
