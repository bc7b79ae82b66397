package reconcile

import (
	"fmt"

	"github.com/filmatch/filmatch-backend/internal/profiles"
	"github.com/filmatch/filmatch-backend/pkg/config"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
)

// validatePreferences re-checks the data invariants before any write. The
// collecting flow enforces these already; a violation here is a caller bug.
func validatePreferences(cfg config.OnboardingConfig, favorites []profiles.FavoriteInput, recentWatches []profiles.RecentWatchInput, genreRatings []profiles.GenreRatingInput) error {
	maxFavorites := cfg.MaxFavorites
	if maxFavorites <= 0 {
		maxFavorites = 4
	}
	maxWatches := cfg.MaxRecentWatches
	if maxWatches <= 0 {
		maxWatches = 5
	}

	if len(favorites) > maxFavorites {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d favorites allowed", maxFavorites))
	}
	seenTitles := make(map[string]struct{}, len(favorites))
	for _, fav := range favorites {
		if fav.Title == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "favorite title is required")
		}
		if _, ok := seenTitles[fav.Title]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate favorite %q", fav.Title))
		}
		seenTitles[fav.Title] = struct{}{}
	}

	if len(recentWatches) > maxWatches {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d recent watches allowed", maxWatches))
	}
	seenWatches := make(map[string]struct{}, len(recentWatches))
	for _, watch := range recentWatches {
		if watch.Title == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "recent watch title is required")
		}
		if watch.Rating < 1 || watch.Rating > 5 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("recent watch %q needs a 1-5 rating", watch.Title))
		}
		if _, ok := seenWatches[watch.Title]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate recent watch %q", watch.Title))
		}
		seenWatches[watch.Title] = struct{}{}
	}

	seenGenres := make(map[string]struct{}, len(genreRatings))
	for _, rating := range genreRatings {
		if !rating.Genre.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown genre %q", rating.Genre))
		}
		if rating.Rating < 0 || rating.Rating > 5 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("genre %q rating must be 0-5", rating.Genre))
		}
		if _, ok := seenGenres[string(rating.Genre)]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate genre %q", rating.Genre))
		}
		seenGenres[string(rating.Genre)] = struct{}{}
	}

	return nil
}
