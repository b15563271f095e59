package entity

import (
	"strings"
)

type Movie struct {
	ID          int      `db:"id"`
	Title       string   `db:"title"`
	ReleaseYear int      `db:"release_year"`
	Description string   `db:"description"`
	Director    string   `db:"director"`
	Actors      []string `db:"actors"`

	Genres  []*Genre  `db:"-"`
	Reviews []*Review `db:"-"`
}

// NewMovie trims the title and drops release years before MinReleaseYear.
func NewMovie(title string, releaseYear, id int) *Movie {
	if releaseYear < MinReleaseYear {
		releaseYear = 0
	}
	return &Movie{
		ID:          id,
		Title:       strings.TrimSpace(title),
		ReleaseYear: releaseYear,
	}
}

func (m *Movie) Equal(other *Movie) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Title == other.Title && m.ReleaseYear == other.ReleaseYear
}

func (m *Movie) HasGenre(name string) bool {
	name = strings.TrimSpace(name)
	for _, g := range m.Genres {
		if g.Name == name {
			return true
		}
	}
	return false
}

func (m *Movie) AddGenre(genre *Genre) {
	if genre == nil || m.HasGenre(genre.Name) {
		return
	}
	m.Genres = append(m.Genres, genre)
}

func (m *Movie) GenreNames() []string {
	names := make([]string, len(m.Genres))
	for i, g := range m.Genres {
		names[i] = g.Name
	}
	return names
}

// GenreString joins genre names the way the CSV stores them.
func (m *Movie) GenreString() string {
	return strings.Join(m.GenreNames(), ",")
}

func (m *Movie) HasActor(name string) bool {
	name = normalizeName(name)
	for _, a := range m.Actors {
		if normalizeName(a) == name {
			return true
		}
	}
	return false
}

func (m *Movie) ActorString() string {
	return strings.Join(m.Actors, ", ")
}

func (m *Movie) AddReview(review *Review) {
	for _, r := range m.Reviews {
		if r == review {
			return
		}
	}
	m.Reviews = append(m.Reviews, review)
}

// ParseActors splits a comma separated actor list, dropping blanks.
func ParseActors(s string) []string {
	var actors []string
	for _, part := range strings.Split(s, ",") {
		if a := strings.TrimSpace(part); a != "" {
			actors = append(actors, a)
		}
	}
	return actors
}
