package repository

import (
	"context"

	"movie-catalogue/internal/data/seed"
	"movie-catalogue/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Repository groups the catalogue repositories behind one facade. Lookups
// of a missing row return (nil, nil).
type Repository struct {
	User   UserRepository
	Movie  MovieRepository
	Genre  GenreRepository
	Review ReviewRepository
	Seeder Seeder
}

// Seeder bulk-loads a parsed CSV dataset.
type Seeder interface {
	IsEmpty(ctx context.Context) (bool, error)
	Populate(ctx context.Context, ds *seed.Dataset) error
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// NewRepository builds the PostgreSQL backed repositories.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:   NewUserRepository(db, log),
		Movie:  NewMovieRepository(db, log),
		Genre:  NewGenreRepository(db, log),
		Review: NewReviewRepository(db, log),
		Seeder: NewSeedRepository(db, log),
	}
}
