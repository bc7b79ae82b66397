package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedResponse marks upstream payloads that fail the parse step.
var ErrMalformedResponse = errors.New("malformed catalog response")

// MovieRecord is the canonical movie shape exposed to the rest of the app.
// Raw upstream payloads never leave this package unparsed.
type MovieRecord struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Year         int      `json:"year"`
	PosterPath   *string  `json:"poster_path,omitempty"`
	BackdropPath *string  `json:"backdrop_path,omitempty"`
	Genres       []string `json:"genres"`
	Director     *string  `json:"director,omitempty"`
	Cast         []string `json:"cast,omitempty"`
	Rating       float64  `json:"rating"`
	Runtime      *int     `json:"runtime,omitempty"`
	Overview     string   `json:"overview"`
}

// ---- raw TMDB response shapes ----

type listResponse struct {
	Page         int        `json:"page"`
	Results      []rawMovie `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type rawMovie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
}

type rawMovieDetail struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Overview     string     `json:"overview"`
	ReleaseDate  string     `json:"release_date"`
	PosterPath   *string    `json:"poster_path"`
	BackdropPath *string    `json:"backdrop_path"`
	Genres       []rawGenre `json:"genres"`
	VoteAverage  float64    `json:"vote_average"`
	Runtime      int        `json:"runtime"`
	Credits      *rawCredits `json:"credits"`
}

type rawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreListResponse struct {
	Genres []rawGenre `json:"genres"`
}

type rawCredits struct {
	Cast []rawCastMember `json:"cast"`
	Crew []rawCrewMember `json:"crew"`
}

type rawCastMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type rawCrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

const topCastSize = 5

// parseMovie validates a raw list entry and produces the canonical record.
// Genre ids are resolved through the caller-supplied lookup.
func parseMovie(raw rawMovie, genreName func(int) (string, bool)) (MovieRecord, error) {
	if raw.ID <= 0 {
		return MovieRecord{}, fmt.Errorf("%w: missing movie id", ErrMalformedResponse)
	}
	if strings.TrimSpace(raw.Title) == "" {
		return MovieRecord{}, fmt.Errorf("%w: movie %d has no title", ErrMalformedResponse, raw.ID)
	}

	genres := make([]string, 0, len(raw.GenreIDs))
	for _, id := range raw.GenreIDs {
		if name, ok := genreName(id); ok {
			genres = append(genres, name)
		}
	}

	return MovieRecord{
		ID:           raw.ID,
		Title:        raw.Title,
		Year:         parseYear(raw.ReleaseDate),
		PosterPath:   raw.PosterPath,
		BackdropPath: raw.BackdropPath,
		Genres:       genres,
		Rating:       roundRating(raw.VoteAverage),
		Overview:     raw.Overview,
	}, nil
}

// parseMovieDetail validates a detail payload, including director and top cast.
func parseMovieDetail(raw rawMovieDetail) (MovieRecord, error) {
	if raw.ID <= 0 {
		return MovieRecord{}, fmt.Errorf("%w: missing movie id", ErrMalformedResponse)
	}
	if strings.TrimSpace(raw.Title) == "" {
		return MovieRecord{}, fmt.Errorf("%w: movie %d has no title", ErrMalformedResponse, raw.ID)
	}

	genres := make([]string, 0, len(raw.Genres))
	for _, g := range raw.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}

	record := MovieRecord{
		ID:           raw.ID,
		Title:        raw.Title,
		Year:         parseYear(raw.ReleaseDate),
		PosterPath:   raw.PosterPath,
		BackdropPath: raw.BackdropPath,
		Genres:       genres,
		Rating:       roundRating(raw.VoteAverage),
		Overview:     raw.Overview,
	}
	if raw.Runtime > 0 {
		runtime := raw.Runtime
		record.Runtime = &runtime
	}
	if raw.Credits != nil {
		for _, crew := range raw.Credits.Crew {
			if crew.Job == "Director" && crew.Name != "" {
				director := crew.Name
				record.Director = &director
				break
			}
		}
		for _, member := range raw.Credits.Cast {
			if member.Name == "" {
				continue
			}
			record.Cast = append(record.Cast, member.Name)
			if len(record.Cast) == topCastSize {
				break
			}
		}
	}
	return record, nil
}

func parseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

func roundRating(vote float64) float64 {
	return math.Round(vote*10) / 10
}
