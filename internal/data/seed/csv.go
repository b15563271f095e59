package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"movie-catalogue/internal/data/entity"
)

const (
	movieColumns  = 7
	userColumns   = 3
	reviewColumns = 5
)

// rows yields every data row after the header with fields trimmed.
func rows(r io.Reader, minColumns int, fn func(line int, row []string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read header: %w", err)
	}

	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("read line %d: %w", line, err)
		}
		if len(row) < minColumns {
			return fmt.Errorf("line %d: expected at least %d columns, got %d", line, minColumns, len(row))
		}
		for i := range row {
			row[i] = strings.TrimSpace(strings.TrimPrefix(row[i], "\ufeff"))
		}
		if err := fn(line, row); err != nil {
			return err
		}
	}
}

func atoi(line int, column, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s %q: %w", line, column, value, err)
	}
	return n, nil
}

// ReadMovies parses the movie file. Genres are numbered by first
// appearance and movie_genres rows are grouped by genre in that order.
// A genre repeated within one row is linked once.
func ReadMovies(r io.Reader) ([]MovieRecord, []GenreRecord, []entity.MovieGenre, error) {
	var (
		movies     []MovieRecord
		genreOrder []string
		genreIndex = map[string][]int{}
	)

	err := rows(r, movieColumns, func(line int, row []string) error {
		id, err := atoi(line, "rank", row[0])
		if err != nil {
			return err
		}
		year, err := atoi(line, "year", row[6])
		if err != nil {
			return err
		}

		seen := map[string]bool{}
		for _, name := range strings.Split(row[2], ",") {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			if _, ok := genreIndex[name]; !ok {
				genreOrder = append(genreOrder, name)
			}
			genreIndex[name] = append(genreIndex[name], id)
		}

		movies = append(movies, MovieRecord{
			ID:          id,
			Title:       row[1],
			Genres:      row[2],
			Description: row[3],
			Director:    row[4],
			Actors:      row[5],
			ReleaseYear: year,
		})
		return nil
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read movies: %w", err)
	}

	genres := make([]GenreRecord, len(genreOrder))
	var movieGenres []entity.MovieGenre
	for i, name := range genreOrder {
		genres[i] = GenreRecord{ID: i + 1, Name: name}
		for _, movieID := range genreIndex[name] {
			movieGenres = append(movieGenres, entity.MovieGenre{
				ID:      len(movieGenres) + 1,
				MovieID: movieID,
				GenreID: i + 1,
			})
		}
	}

	return movies, genres, movieGenres, nil
}

// ReadUsers parses the users file, hashing each password with hash.
func ReadUsers(r io.Reader, hash HashFunc) ([]UserRecord, error) {
	var users []UserRecord

	err := rows(r, userColumns, func(line int, row []string) error {
		id, err := atoi(line, "id", row[0])
		if err != nil {
			return err
		}
		password := row[2]
		if hash != nil {
			if password, err = hash(row[2]); err != nil {
				return fmt.Errorf("line %d: hash password: %w", line, err)
			}
		}
		users = append(users, UserRecord{
			ID:           id,
			Username:     strings.ToLower(row[1]),
			PasswordHash: password,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	return users, nil
}

func ReadReviews(r io.Reader) ([]ReviewRecord, error) {
	var reviews []ReviewRecord

	err := rows(r, reviewColumns, func(line int, row []string) error {
		var ids [3]int
		for i, column := range []string{"id", "user_id", "movie_id"} {
			n, err := atoi(line, column, row[i])
			if err != nil {
				return err
			}
			ids[i] = n
		}
		ts, err := time.Parse(TimestampLayout, row[4])
		if err != nil {
			return fmt.Errorf("line %d: invalid timestamp %q: %w", line, row[4], err)
		}
		reviews = append(reviews, ReviewRecord{
			ID:        ids[0],
			UserID:    ids[1],
			MovieID:   ids[2],
			Text:      row[3],
			Timestamp: ts,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read reviews: %w", err)
	}

	return reviews, nil
}
