package repository

import (
	"context"
	"fmt"

	"movie-catalogue/internal/data/entity"
	"movie-catalogue/pkg/database"

	"go.uber.org/zap"
)

// movieGenreRepository maintains the movie_genres bridge table. Its write
// methods take a querier so they can join the caller's transaction.
type movieGenreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func newMovieGenreRepository(db database.PgxIface, log *zap.Logger) *movieGenreRepository {
	return &movieGenreRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie_genre")),
	}
}

// Link associates the movie with the named genre, creating the genre row
// when it does not exist yet. It returns the genre id.
func (r *movieGenreRepository) Link(ctx context.Context, q querier, movieID int, genreName string) (int, error) {
	var genreID int
	err := q.QueryRow(ctx, `
		INSERT INTO genres (genre_name) VALUES ($1)
		ON CONFLICT (genre_name) DO UPDATE SET genre_name = EXCLUDED.genre_name
		RETURNING id
	`, genreName).Scan(&genreID)
	if err != nil {
		r.log.Error("Failed to upsert genre",
			zap.Error(err),
			zap.String("genre", genreName),
		)
		return 0, fmt.Errorf("upsert genre %s: %w", genreName, err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2)
		ON CONFLICT (movie_id, genre_id) DO NOTHING
	`, movieID, genreID)
	if err != nil {
		r.log.Error("Failed to create movie_genre",
			zap.Error(err),
			zap.Int("movie_id", movieID),
			zap.Int("genre_id", genreID),
		)
		return 0, fmt.Errorf("create movie_genre: %w", err)
	}

	return genreID, nil
}

// FindByMovieIDs returns the genres of each movie keyed by movie id, in
// bridge row order. Genres with the same id share one pointer.
func (r *movieGenreRepository) FindByMovieIDs(ctx context.Context, movieIDs []int) (map[int][]*entity.Genre, error) {
	result := make(map[int][]*entity.Genre, len(movieIDs))
	if len(movieIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT mg.movie_id, g.id, g.genre_name
		FROM movie_genres mg
		INNER JOIN genres g ON g.id = mg.genre_id
		WHERE mg.movie_id = ANY($1)
		ORDER BY mg.movie_id, mg.id
	`

	rows, err := r.db.Query(ctx, query, movieIDs)
	if err != nil {
		r.log.Error("Failed to find movie_genres by movie IDs",
			zap.Error(err),
			zap.Int("count", len(movieIDs)),
		)
		return nil, fmt.Errorf("find movie_genres: %w", err)
	}
	defer rows.Close()

	genres := make(map[int]*entity.Genre)
	for rows.Next() {
		var movieID int
		var g entity.Genre
		if err := rows.Scan(&movieID, &g.ID, &g.Name); err != nil {
			r.log.Error("Failed to scan movie_genre row", zap.Error(err))
			return nil, fmt.Errorf("scan movie_genre: %w", err)
		}
		shared, ok := genres[g.ID]
		if !ok {
			shared = &g
			genres[g.ID] = shared
		}
		result[movieID] = append(result[movieID], shared)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movie_genre rows: %w", err)
	}

	return result, nil
}
