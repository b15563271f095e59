package repository

import (
	"context"
	"fmt"

	"movie-catalogue/internal/data/seed"
	"movie-catalogue/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type seedRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeedRepository(db database.PgxIface, log *zap.Logger) Seeder {
	return &seedRepository{
		db:  db,
		log: log.With(zap.String("repository", "seed")),
	}
}

func (r *seedRepository) IsEmpty(ctx context.Context) (bool, error) {
	var empty bool
	err := r.db.QueryRow(ctx, `SELECT NOT EXISTS (SELECT 1 FROM movies)`).Scan(&empty)
	if err != nil {
		r.log.Error("Failed to check movies table", zap.Error(err))
		return false, fmt.Errorf("check movies table: %w", err)
	}
	return empty, nil
}

// Populate copies every dataset table in one transaction, then moves the
// serial sequences past the copied ids.
func (r *seedRepository) Populate(ctx context.Context, ds *seed.Dataset) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin populate: %w", err)
	}
	defer tx.Rollback(ctx)

	tables := []struct {
		name    string
		columns []string
		rows    [][]any
	}{
		{"movies", []string{"id", "title", "genres", "description", "director", "actors", "release_year"}, movieRows(ds)},
		{"genres", []string{"id", "genre_name"}, genreRows(ds)},
		{"movie_genres", []string{"id", "movie_id", "genre_id"}, movieGenreRows(ds)},
		{"users", []string{"id", "username", "password"}, userRows(ds)},
		{"reviews", []string{"id", "user_id", "movie_id", "review", "timestamp"}, reviewRows(ds)},
	}

	for _, t := range tables {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{t.name}, t.columns, pgx.CopyFromRows(t.rows))
		if err != nil {
			r.log.Error("Failed to copy table",
				zap.Error(err),
				zap.String("table", t.name),
			)
			return fmt.Errorf("copy %s: %w", t.name, err)
		}
		r.log.Info("Table populated",
			zap.String("table", t.name),
			zap.Int64("rows", n),
		)
	}

	for _, table := range []string{"users", "genres", "movie_genres", "reviews"} {
		query := fmt.Sprintf(`
			SELECT setval(pg_get_serial_sequence('%[1]s', 'id'),
			              GREATEST(COALESCE(MAX(id), 0), 1),
			              COALESCE(MAX(id), 0) > 0)
			FROM %[1]s
		`, table)
		if _, err := tx.Exec(ctx, query); err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit populate: %w", err)
	}

	return nil
}

func movieRows(ds *seed.Dataset) [][]any {
	rows := make([][]any, len(ds.Movies))
	for i, m := range ds.Movies {
		rows[i] = []any{m.ID, m.Title, m.Genres, m.Description, m.Director, m.Actors, m.ReleaseYear}
	}
	return rows
}

func genreRows(ds *seed.Dataset) [][]any {
	rows := make([][]any, len(ds.Genres))
	for i, g := range ds.Genres {
		rows[i] = []any{g.ID, g.Name}
	}
	return rows
}

func movieGenreRows(ds *seed.Dataset) [][]any {
	rows := make([][]any, len(ds.MovieGenres))
	for i, mg := range ds.MovieGenres {
		rows[i] = []any{mg.ID, mg.MovieID, mg.GenreID}
	}
	return rows
}

func userRows(ds *seed.Dataset) [][]any {
	rows := make([][]any, len(ds.Users))
	for i, u := range ds.Users {
		rows[i] = []any{u.ID, u.Username, u.PasswordHash}
	}
	return rows
}

func reviewRows(ds *seed.Dataset) [][]any {
	rows := make([][]any, len(ds.Reviews))
	for i, rv := range ds.Reviews {
		rows[i] = []any{rv.ID, rv.UserID, rv.MovieID, rv.Text, rv.Timestamp}
	}
	return rows
}
