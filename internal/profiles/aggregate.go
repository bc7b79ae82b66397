package profiles

import (
	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/filmatch/filmatch-backend/pkg/enums"
)

// Stats is the derived display projection of a profile's preference data.
type Stats struct {
	FavoritesCount     int `json:"favorites_count"`
	RecentWatchesCount int `json:"recent_watches_count"`
	RatedGenresCount   int `json:"rated_genres_count"`
}

// ComputeStats derives display counts from a profile. Genres only count when
// their rating is above zero.
func ComputeStats(profile *models.UserProfile) Stats {
	if profile == nil {
		return Stats{}
	}
	rated := 0
	for _, gr := range profile.GenreRatings {
		if gr.Rating > 0 {
			rated++
		}
	}
	return Stats{
		FavoritesCount:     len(profile.Favorites),
		RecentWatchesCount: len(profile.RecentWatches),
		RatedGenresCount:   rated,
	}
}

// ApplyStatusChange adjusts the watched/watchlist counters for a single
// movie's status transition and returns the updated profile. Counters never
// drop below zero.
func ApplyStatusChange(profile models.UserProfile, prev, next enums.MovieStatus) models.UserProfile {
	if prev == next {
		return profile
	}

	switch prev {
	case enums.MovieStatusWatched:
		profile.WatchedMovies--
	case enums.MovieStatusWatchlist:
		profile.WatchlistMovies--
	}

	switch next {
	case enums.MovieStatusWatched:
		profile.WatchedMovies++
	case enums.MovieStatusWatchlist:
		profile.WatchlistMovies++
	}

	if profile.WatchedMovies < 0 {
		profile.WatchedMovies = 0
	}
	if profile.WatchlistMovies < 0 {
		profile.WatchlistMovies = 0
	}
	return profile
}
