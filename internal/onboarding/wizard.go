package onboarding

import (
	"fmt"

	"github.com/filmatch/filmatch-backend/internal/profiles"
	"github.com/filmatch/filmatch-backend/pkg/config"
	"github.com/filmatch/filmatch-backend/pkg/enums"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
)

// Step identifies the wizard's current position.
type Step string

const (
	StepFavorites     Step = "favorites"
	StepRecentWatches Step = "recent_watches"
	StepGenreRatings  Step = "genre_ratings"
	StepComplete      Step = "complete"
)

// PendingWatch is a selected search result awaiting its rating confirmation.
type PendingWatch struct {
	MovieID int64  `json:"movie_id"`
	Title   string `json:"title"`
	Year    int    `json:"year"`
}

// State is the in-progress wizard data for one user.
type State struct {
	Step          Step                        `json:"step"`
	Favorites     []profiles.FavoriteInput    `json:"favorites"`
	RecentWatches []profiles.RecentWatchInput `json:"recent_watches"`
	GenreRatings  []profiles.GenreRatingInput `json:"genre_ratings"`
	Pending       *PendingWatch               `json:"pending,omitempty"`
	SearchQuery   string                      `json:"search_query,omitempty"`
}

// NewState starts a wizard, seeded from previously committed preferences when
// the user re-runs onboarding.
func NewState(seed *profiles.PreferenceSnapshot) State {
	state := State{Step: StepFavorites}
	if seed != nil {
		state.Favorites = append(state.Favorites, seed.Favorites...)
		state.RecentWatches = append(state.RecentWatches, seed.RecentWatches...)
		state.GenreRatings = append(state.GenreRatings, seed.GenreRatings...)
	}
	return state
}

// AddFavorite appends a favorite, rejecting cap overflow and duplicate titles.
// A successful add clears the active search query.
func (s *State) AddFavorite(cfg config.OnboardingConfig, input profiles.FavoriteInput) error {
	if input.Title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "favorite title is required")
	}
	if len(s.Favorites) >= maxFavorites(cfg) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("you can pick at most %d favorites", maxFavorites(cfg)))
	}
	for _, fav := range s.Favorites {
		if fav.Title == input.Title {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%q is already a favorite", input.Title))
		}
	}
	s.Favorites = append(s.Favorites, input)
	s.SearchQuery = ""
	return nil
}

// RemoveFavorite drops the favorite with the given title if present.
func (s *State) RemoveFavorite(title string) {
	for i, fav := range s.Favorites {
		if fav.Title == title {
			s.Favorites = append(s.Favorites[:i], s.Favorites[i+1:]...)
			return
		}
	}
}

// SelectRecentWatch stages a search result for rating. The watch is not added
// until the rating is confirmed.
func (s *State) SelectRecentWatch(cfg config.OnboardingConfig, pending PendingWatch) error {
	if pending.Title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recent watch title is required")
	}
	if len(s.RecentWatches) >= maxRecentWatches(cfg) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("you can add at most %d recent watches", maxRecentWatches(cfg)))
	}
	for _, watch := range s.RecentWatches {
		if watch.Title == pending.Title {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%q is already in your recent watches", pending.Title))
		}
	}
	s.Pending = &pending
	return nil
}

// ConfirmRecentWatch commits the staged selection with its rating.
func (s *State) ConfirmRecentWatch(cfg config.OnboardingConfig, rating int) error {
	if s.Pending == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "no movie selected")
	}
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if len(s.RecentWatches) >= maxRecentWatches(cfg) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("you can add at most %d recent watches", maxRecentWatches(cfg)))
	}
	s.RecentWatches = append(s.RecentWatches, profiles.RecentWatchInput{
		MovieID: s.Pending.MovieID,
		Title:   s.Pending.Title,
		Year:    s.Pending.Year,
		Rating:  rating,
	})
	s.Pending = nil
	s.SearchQuery = ""
	return nil
}

// CancelRecentWatch discards the staged selection.
func (s *State) CancelRecentWatch() {
	s.Pending = nil
}

// RemoveRecentWatch drops the watch with the given title if present.
func (s *State) RemoveRecentWatch(title string) {
	for i, watch := range s.RecentWatches {
		if watch.Title == title {
			s.RecentWatches = append(s.RecentWatches[:i], s.RecentWatches[i+1:]...)
			return
		}
	}
}

// RateGenre upserts the rating for a genre. Zero is a meaningful value.
func (s *State) RateGenre(genre enums.Genre, rating int) error {
	if !genre.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown genre %q", genre))
	}
	if rating < 0 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	for i, existing := range s.GenreRatings {
		if existing.Genre == genre {
			s.GenreRatings[i].Rating = rating
			return nil
		}
	}
	s.GenreRatings = append(s.GenreRatings, profiles.GenreRatingInput{Genre: genre, Rating: rating})
	return nil
}

// CanProceed reports whether the current step's gate holds, and if not, a
// message describing exactly what is missing.
func (s *State) CanProceed(cfg config.OnboardingConfig) (bool, string) {
	switch s.Step {
	case StepFavorites:
		need := missing(minFavorites(cfg), len(s.Favorites))
		if need > 0 {
			return false, fmt.Sprintf("pick %d more favorite movie(s)", need)
		}
		return true, ""

	case StepRecentWatches:
		need := missing(minRecentWatches(cfg), len(s.RecentWatches))
		if need > 0 {
			return false, fmt.Sprintf("add %d more rated movie(s)", need)
		}
		for _, watch := range s.RecentWatches {
			if watch.Rating < 1 {
				return false, fmt.Sprintf("rate %q before continuing", watch.Title)
			}
		}
		return true, ""

	case StepGenreRatings:
		rated := 0
		for _, rating := range s.GenreRatings {
			if rating.Rating > 0 {
				rated++
			}
		}
		need := missing(minRatedGenres(cfg), rated)
		if need > 0 {
			return false, fmt.Sprintf("rate %d more genre(s)", need)
		}
		return true, ""
	}
	return false, "onboarding already complete"
}

// Advance moves to the next step when the current gate holds.
func (s *State) Advance(cfg config.OnboardingConfig) error {
	ok, reason := s.CanProceed(cfg)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, reason)
	}
	switch s.Step {
	case StepFavorites:
		s.Step = StepRecentWatches
	case StepRecentWatches:
		s.Step = StepGenreRatings
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "no further step; submit to finish")
	}
	s.Pending = nil
	s.SearchQuery = ""
	return nil
}

func missing(threshold, current int) int {
	if current >= threshold {
		return 0
	}
	return threshold - current
}

func maxFavorites(cfg config.OnboardingConfig) int {
	if cfg.MaxFavorites > 0 {
		return cfg.MaxFavorites
	}
	return 4
}

func minFavorites(cfg config.OnboardingConfig) int {
	if cfg.MinFavorites > 0 {
		return cfg.MinFavorites
	}
	return 2
}

func maxRecentWatches(cfg config.OnboardingConfig) int {
	if cfg.MaxRecentWatches > 0 {
		return cfg.MaxRecentWatches
	}
	return 5
}

func minRecentWatches(cfg config.OnboardingConfig) int {
	if cfg.MinRecentWatches > 0 {
		return cfg.MinRecentWatches
	}
	return 3
}

func minRatedGenres(cfg config.OnboardingConfig) int {
	if cfg.MinRatedGenres > 0 {
		return cfg.MinRatedGenres
	}
	return 4
}
