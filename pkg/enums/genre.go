package enums

import "fmt"

// Genre is the fixed list of genres a user can rate during onboarding.
type Genre string

const (
	GenreAction    Genre = "action"
	GenreComedy    Genre = "comedy"
	GenreDrama     Genre = "drama"
	GenreHorror    Genre = "horror"
	GenreRomance   Genre = "romance"
	GenreSciFi     Genre = "scifi"
	GenreThriller  Genre = "thriller"
	GenreAnimation Genre = "animation"
	GenreDocu      Genre = "documentary"
	GenreFantasy   Genre = "fantasy"
)

var validGenres = []Genre{
	GenreAction,
	GenreComedy,
	GenreDrama,
	GenreHorror,
	GenreRomance,
	GenreSciFi,
	GenreThriller,
	GenreAnimation,
	GenreDocu,
	GenreFantasy,
}

// Genres returns the canonical rating list in display order.
func Genres() []Genre {
	out := make([]Genre, len(validGenres))
	copy(out, validGenres)
	return out
}

// String implements fmt.Stringer.
func (g Genre) String() string {
	return string(g)
}

// IsValid reports whether the value is a known Genre.
func (g Genre) IsValid() bool {
	for _, candidate := range validGenres {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGenre converts raw input into a Genre.
func ParseGenre(value string) (Genre, error) {
	for _, candidate := range validGenres {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid genre %q", value)
}
