package seed

import (
	"fmt"

	"movie-catalogue/internal/data/entity"
)

// Graph is a Dataset linked into bidirectional entity pointers.
type Graph struct {
	Movies  []*entity.Movie
	Genres  []*entity.Genre
	Users   []*entity.User
	Reviews []*entity.Review
}

// Build links the dataset rows. A review or association that points at an
// unknown row is an error.
func (d *Dataset) Build() (*Graph, error) {
	g := &Graph{}

	movies := make(map[int]*entity.Movie, len(d.Movies))
	for _, rec := range d.Movies {
		m := entity.NewMovie(rec.Title, rec.ReleaseYear, rec.ID)
		m.Description = rec.Description
		m.Director = rec.Director
		m.Actors = entity.ParseActors(rec.Actors)
		movies[rec.ID] = m
		g.Movies = append(g.Movies, m)
	}

	genres := make(map[int]*entity.Genre, len(d.Genres))
	for _, rec := range d.Genres {
		genre := entity.NewGenre(rec.Name)
		genre.ID = rec.ID
		genres[rec.ID] = genre
		g.Genres = append(g.Genres, genre)
	}

	for _, mg := range d.MovieGenres {
		m, ok := movies[mg.MovieID]
		if !ok {
			return nil, fmt.Errorf("movie_genres row %d: unknown movie %d", mg.ID, mg.MovieID)
		}
		genre, ok := genres[mg.GenreID]
		if !ok {
			return nil, fmt.Errorf("movie_genres row %d: unknown genre %d", mg.ID, mg.GenreID)
		}
		if genre.IsAppliedTo(m) {
			continue
		}
		if err := entity.MakeGenreAssociation(m, genre); err != nil {
			return nil, err
		}
	}

	users := make(map[int]*entity.User, len(d.Users))
	for _, rec := range d.Users {
		u := entity.NewUser(rec.Username, rec.PasswordHash)
		u.ID = rec.ID
		users[rec.ID] = u
		g.Users = append(g.Users, u)
	}

	for _, rec := range d.Reviews {
		u, ok := users[rec.UserID]
		if !ok {
			return nil, fmt.Errorf("review %d: unknown user %d", rec.ID, rec.UserID)
		}
		m, ok := movies[rec.MovieID]
		if !ok {
			return nil, fmt.Errorf("review %d: unknown movie %d", rec.ID, rec.MovieID)
		}
		review, err := entity.AddReview(rec.Text, u, m, rec.Timestamp)
		if err != nil {
			return nil, err
		}
		review.ID = rec.ID
		g.Reviews = append(g.Reviews, review)
	}

	return g, nil
}
