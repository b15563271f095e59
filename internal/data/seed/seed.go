// Package seed reads the catalogue CSV files into row records ready for
// bulk insertion, and links them into an entity graph for in-memory use.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"movie-catalogue/internal/data/entity"
)

const (
	MoviesFile  = "Data1000Movies.csv"
	UsersFile   = "users.csv"
	ReviewsFile = "reviews.csv"

	// TimestampLayout is the format of reviews.csv timestamps.
	TimestampLayout = "2006-01-02 15:04:05"
)

type MovieRecord struct {
	ID          int
	Title       string
	Genres      string
	Description string
	Director    string
	Actors      string
	ReleaseYear int
}

type GenreRecord struct {
	ID   int
	Name string
}

type UserRecord struct {
	ID           int
	Username     string
	PasswordHash string
}

type ReviewRecord struct {
	ID        int
	UserID    int
	MovieID   int
	Text      string
	Timestamp time.Time
}

// Dataset holds every table row produced from the CSV files.
type Dataset struct {
	Movies      []MovieRecord
	Genres      []GenreRecord
	MovieGenres []entity.MovieGenre
	Users       []UserRecord
	Reviews     []ReviewRecord
}

// HashFunc turns a plain-text password into the stored hash.
type HashFunc func(password string) (string, error)

// Load reads the three catalogue files from dir.
func Load(dir string, hash HashFunc) (*Dataset, error) {
	ds := &Dataset{}

	f, err := os.Open(filepath.Join(dir, MoviesFile))
	if err != nil {
		return nil, fmt.Errorf("open movies file: %w", err)
	}
	ds.Movies, ds.Genres, ds.MovieGenres, err = ReadMovies(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	f, err = os.Open(filepath.Join(dir, UsersFile))
	if err != nil {
		return nil, fmt.Errorf("open users file: %w", err)
	}
	ds.Users, err = ReadUsers(f, hash)
	f.Close()
	if err != nil {
		return nil, err
	}

	f, err = os.Open(filepath.Join(dir, ReviewsFile))
	if err != nil {
		return nil, fmt.Errorf("open reviews file: %w", err)
	}
	ds.Reviews, err = ReadReviews(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	return ds, nil
}
