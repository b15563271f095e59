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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

// Create inserts the user and stores the generated id on it.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`

	err := ur.db.QueryRow(ctx, query, user.Username, user.PasswordHash).Scan(&user.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", user.Username, apperrors.ErrConflict)
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id int) (*entity.User, error) {
	query := `SELECT id, username, password FROM users WHERE id = $1`

	var user entity.User
	err := ur.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.Int("user_id", id),
		)
		return nil, fmt.Errorf("find user by ID %d: %w", id, err)
	}

	return &user, nil
}

// FindByUsername matches usernames case-insensitively.
func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT id, username, password FROM users WHERE username = $1`

	username = strings.ToLower(strings.TrimSpace(username))

	var user entity.User
	err := ur.db.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	return &user, nil
}

func (ur *userRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM users`

	var count int64
	if err := ur.db.QueryRow(ctx, query).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count all users: %w", err)
	}

	return count, nil
}
