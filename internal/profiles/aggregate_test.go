package profiles

import (
	"testing"

	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/filmatch/filmatch-backend/pkg/enums"
)

func TestComputeStatsCountsOnlyRatedGenres(t *testing.T) {
	profile := &models.UserProfile{
		Favorites: []models.FavoriteMovie{
			{Title: "Dune"},
			{Title: "Her"},
		},
		RecentWatches: []models.RecentWatch{
			{Title: "Arrival", Rating: 4},
			{Title: "Sicario", Rating: 5},
			{Title: "Enemy", Rating: 3},
		},
		GenreRatings: []models.GenreRating{
			{Genre: enums.GenreAction, Rating: 4},
			{Genre: enums.GenreDrama, Rating: 5},
			{Genre: enums.GenreHorror, Rating: 0},
			{Genre: enums.GenreComedy, Rating: 3},
		},
	}

	stats := ComputeStats(profile)
	if stats.FavoritesCount != 2 {
		t.Fatalf("expected 2 favorites, got %d", stats.FavoritesCount)
	}
	if stats.RecentWatchesCount != 3 {
		t.Fatalf("expected 3 recent watches, got %d", stats.RecentWatchesCount)
	}
	if stats.RatedGenresCount != 3 {
		t.Fatalf("expected 3 rated genres (zero excluded), got %d", stats.RatedGenresCount)
	}
}

func TestComputeStatsNilProfile(t *testing.T) {
	if stats := ComputeStats(nil); stats != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestApplyStatusChangeTransitionTable(t *testing.T) {
	none := enums.MovieStatusNone
	watched := enums.MovieStatusWatched
	watchlist := enums.MovieStatusWatchlist

	cases := []struct {
		name          string
		prev, next    enums.MovieStatus
		wantWatched   int
		wantWatchlist int
	}{
		{"none to none", none, none, 2, 1},
		{"none to watched", none, watched, 3, 1},
		{"none to watchlist", none, watchlist, 2, 2},
		{"watched to none", watched, none, 1, 1},
		{"watched to watched", watched, watched, 2, 1},
		{"watched to watchlist", watched, watchlist, 1, 2},
		{"watchlist to none", watchlist, none, 2, 0},
		{"watchlist to watched", watchlist, watched, 3, 0},
		{"watchlist to watchlist", watchlist, watchlist, 2, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := models.UserProfile{WatchedMovies: 2, WatchlistMovies: 1}
			got := ApplyStatusChange(profile, tc.prev, tc.next)
			if got.WatchedMovies != tc.wantWatched {
				t.Fatalf("watched: expected %d, got %d", tc.wantWatched, got.WatchedMovies)
			}
			if got.WatchlistMovies != tc.wantWatchlist {
				t.Fatalf("watchlist: expected %d, got %d", tc.wantWatchlist, got.WatchlistMovies)
			}
		})
	}
}

func TestApplyStatusChangeClampsAtZero(t *testing.T) {
	profile := models.UserProfile{WatchedMovies: 0, WatchlistMovies: 0}

	got := ApplyStatusChange(profile, enums.MovieStatusWatched, enums.MovieStatusNone)
	if got.WatchedMovies != 0 {
		t.Fatalf("expected watched clamped at 0, got %d", got.WatchedMovies)
	}

	got = ApplyStatusChange(profile, enums.MovieStatusWatchlist, enums.MovieStatusWatched)
	if got.WatchlistMovies != 0 {
		t.Fatalf("expected watchlist clamped at 0, got %d", got.WatchlistMovies)
	}
	if got.WatchedMovies != 1 {
		t.Fatalf("expected watched incremented to 1, got %d", got.WatchedMovies)
	}
}

func TestApplyStatusChangeMatchesScenario(t *testing.T) {
	profile := models.UserProfile{WatchedMovies: 2, WatchlistMovies: 1}
	got := ApplyStatusChange(profile, enums.MovieStatusWatchlist, enums.MovieStatusWatched)
	if got.WatchedMovies != 3 || got.WatchlistMovies != 0 {
		t.Fatalf("expected watched=3 watchlist=0, got watched=%d watchlist=%d", got.WatchedMovies, got.WatchlistMovies)
	}
}
