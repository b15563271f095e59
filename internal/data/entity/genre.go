package entity

import (
	"fmt"
	"strings"
)

type Genre struct {
	ID   int    `db:"id"`
	Name string `db:"genre_name"`

	Movies []*Movie `db:"-"`
}

func NewGenre(name string) *Genre {
	return &Genre{Name: strings.TrimSpace(name)}
}

func (g *Genre) AddMovie(movie *Movie) {
	for _, m := range g.Movies {
		if m == movie || (m.ID != 0 && m.ID == movie.ID) {
			return
		}
	}
	g.Movies = append(g.Movies, movie)
}

func (g *Genre) IsAppliedTo(movie *Movie) bool {
	for _, m := range g.Movies {
		if m == movie {
			return true
		}
	}
	return false
}

func (g *Genre) NumberOfMovies() int {
	return len(g.Movies)
}

// MakeGenreAssociation links movie and genre in both directions.
func MakeGenreAssociation(movie *Movie, genre *Genre) error {
	if movie == nil || genre == nil {
		return fmt.Errorf("genre association: %w", ErrAssociation)
	}
	if genre.IsAppliedTo(movie) || movie.HasGenre(genre.Name) {
		return fmt.Errorf("genre %q already applied to movie %q: %w", genre.Name, movie.Title, ErrAssociation)
	}

	movie.AddGenre(genre)
	genre.AddMovie(movie)
	return nil
}
