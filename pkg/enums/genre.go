package enums

import "fmt"

// Genre is the musical genre assigned to a product.
type Genre string

const (
	GenrePop        Genre = "pop"
	GenreRock       Genre = "rock"
	GenreHipHop     Genre = "hip-hop"
	GenreElectronic Genre = "electronic"
	GenreIndie      Genre = "indie"
	GenreJazz       Genre = "jazz"
	GenreClassical  Genre = "classical"
	GenreReggaeton  Genre = "reggaeton"
	GenreKPop       Genre = "k-pop"
	GenreLatin      Genre = "latin"
)

var validGenres = []Genre{
	GenrePop,
	GenreRock,
	GenreHipHop,
	GenreElectronic,
	GenreIndie,
	GenreJazz,
	GenreClassical,
	GenreReggaeton,
	GenreKPop,
	GenreLatin,
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
