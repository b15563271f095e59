package repository

import (
	"context"
	"fmt"
	"strings"

	"movie-catalogue/internal/data/entity"
	"movie-catalogue/pkg/apperrors"
	"movie-catalogue/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *entity.Genre) error
	FindAll(ctx context.Context) ([]*entity.Genre, error)
	FindByName(ctx context.Context, name string) (*entity.Genre, error)
}

type genreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGenreRepository(db database.PgxIface, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

func (r *genreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	query := `INSERT INTO genres (genre_name) VALUES ($1) RETURNING id`

	err := r.db.QueryRow(ctx, query, genre.Name).Scan(&genre.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("genre %s: %w", genre.Name, apperrors.ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to create genre",
			zap.Error(err),
			zap.String("genre", genre.Name),
		)
		return fmt.Errorf("create genre %s: %w", genre.Name, err)
	}

	return nil
}

// FindAll returns genres by id, each linked to the movies it is applied to.
func (r *genreRepository) FindAll(ctx context.Context) ([]*entity.Genre, error) {
	query := `
		SELECT g.id, g.genre_name, m.id, m.title, m.release_year
		FROM genres g
		LEFT JOIN movie_genres mg ON mg.genre_id = g.id
		LEFT JOIN movies m ON m.id = mg.movie_id
		ORDER BY g.id, m.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all genres", zap.Error(err))
		return nil, fmt.Errorf("find all genres: %w", err)
	}
	defer rows.Close()

	var genres []*entity.Genre
	movies := make(map[int]*entity.Movie)
	for rows.Next() {
		var (
			genreID     int
			name        string
			movieID     *int
			title       *string
			releaseYear *int
		)
		if err := rows.Scan(&genreID, &name, &movieID, &title, &releaseYear); err != nil {
			r.log.Error("Failed to scan genre row", zap.Error(err))
			return nil, fmt.Errorf("scan genre row: %w", err)
		}

		if len(genres) == 0 || genres[len(genres)-1].ID != genreID {
			genres = append(genres, &entity.Genre{ID: genreID, Name: name})
		}
		if movieID == nil {
			continue
		}

		m, ok := movies[*movieID]
		if !ok {
			m = &entity.Movie{ID: *movieID, Title: *title, ReleaseYear: *releaseYear}
			movies[*movieID] = m
		}
		if err := entity.MakeGenreAssociation(m, genres[len(genres)-1]); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate genre rows: %w", err)
	}

	return genres, nil
}

func (r *genreRepository) FindByName(ctx context.Context, name string) (*entity.Genre, error) {
	query := `SELECT id, genre_name FROM genres WHERE genre_name = $1`

	name = strings.TrimSpace(name)

	var genre entity.Genre
	err := r.db.QueryRow(ctx, query, name).Scan(&genre.ID, &genre.Name)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by name",
			zap.Error(err),
			zap.String("genre", name),
		)
		return nil, fmt.Errorf("find genre by name %s: %w", name, err)
	}

	return &genre, nil
}
