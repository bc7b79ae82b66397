package enums

import "fmt"

// MovieStatus tracks a user's relationship to a single movie.
type MovieStatus string

const (
	MovieStatusNone      MovieStatus = "none"
	MovieStatusWatched   MovieStatus = "watched"
	MovieStatusWatchlist MovieStatus = "watchlist"
)

var validMovieStatuses = []MovieStatus{
	MovieStatusNone,
	MovieStatusWatched,
	MovieStatusWatchlist,
}

// IsValid reports whether the value is a known MovieStatus.
func (m MovieStatus) IsValid() bool {
	for _, candidate := range validMovieStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovieStatus converts raw input into a MovieStatus.
func ParseMovieStatus(value string) (MovieStatus, error) {
	for _, candidate := range validMovieStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movie status %q", value)
}
