package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-catalogue/internal/data/entity"
	"movie-catalogue/pkg/apperrors"
	"movie-catalogue/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	// Create fails with apperrors.ErrRepository when the review has no
	// author or movie, or when either does not exist.
	Create(ctx context.Context, review *entity.Review) error
	FindAll(ctx context.Context) ([]*entity.Review, error)
	FindByMovieID(ctx context.Context, movieID int) ([]*entity.Review, error)
	FindByUsername(ctx context.Context, username string) ([]*entity.Review, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review == nil || review.User == nil {
		return fmt.Errorf("review has no author: %w", apperrors.ErrRepository)
	}
	if review.Movie == nil {
		return fmt.Errorf("review has no movie: %w", apperrors.ErrRepository)
	}
	if review.Timestamp.IsZero() {
		review.Timestamp = time.Now()
	}

	userID := review.User.ID
	if userID == 0 {
		err := r.db.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`,
			strings.ToLower(strings.TrimSpace(review.User.Username))).Scan(&userID)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("review author %s does not exist: %w", review.User.Username, apperrors.ErrRepository)
		}
		if err != nil {
			r.log.Error("Failed to resolve review author",
				zap.Error(err),
				zap.String("username", review.User.Username),
			)
			return fmt.Errorf("resolve review author %s: %w", review.User.Username, err)
		}
	}

	query := `
		INSERT INTO reviews (user_id, movie_id, review, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		userID,
		review.Movie.ID,
		review.Text,
		review.Timestamp,
	).Scan(&review.ID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("review references a missing user or movie: %w", apperrors.ErrRepository)
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.Int("user_id", userID),
			zap.Int("movie_id", review.Movie.ID),
		)
		return fmt.Errorf("create review for movie %d by user %d: %w", review.Movie.ID, userID, err)
	}

	review.User.ID = userID
	review.User.AddReview(review)
	review.Movie.AddReview(review)

	return nil
}

func (r *reviewRepository) FindAll(ctx context.Context) ([]*entity.Review, error) {
	return r.findReviews(ctx, "find all reviews", `ORDER BY r.id`)
}

func (r *reviewRepository) FindByMovieID(ctx context.Context, movieID int) ([]*entity.Review, error) {
	return r.findReviews(ctx, "find reviews by movie ID",
		`WHERE r.movie_id = $1 ORDER BY r.timestamp, r.id`, movieID)
}

func (r *reviewRepository) FindByUsername(ctx context.Context, username string) ([]*entity.Review, error) {
	return r.findReviews(ctx, "find reviews by username",
		`WHERE u.username = $1 ORDER BY r.timestamp DESC, r.id DESC`,
		strings.ToLower(strings.TrimSpace(username)))
}

// findReviews links each review to its author and movie. Rows sharing a
// user or movie share one pointer.
func (r *reviewRepository) findReviews(ctx context.Context, op, clause string, args ...any) ([]*entity.Review, error) {
	query := `
		SELECT r.id, r.review, r.timestamp,
		       u.id, u.username, u.password,
		       m.id, m.title, m.release_year
		FROM reviews r
		INNER JOIN users u ON u.id = r.user_id
		INNER JOIN movies m ON m.id = r.movie_id
	` + clause

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	users := make(map[int]*entity.User)
	movies := make(map[int]*entity.Movie)
	reviews := []*entity.Review{}
	for rows.Next() {
		var (
			review entity.Review
			user   entity.User
			movie  entity.Movie
		)
		err := rows.Scan(
			&review.ID,
			&review.Text,
			&review.Timestamp,
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&movie.ID,
			&movie.Title,
			&movie.ReleaseYear,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}

		author, ok := users[user.ID]
		if !ok {
			author = &user
			users[user.ID] = author
		}
		m, ok := movies[movie.ID]
		if !ok {
			m = &movie
			movies[movie.ID] = m
		}

		linked, err := entity.AddReview(review.Text, author, m, review.Timestamp)
		if err != nil {
			return nil, err
		}
		linked.ID = review.ID
		reviews = append(reviews, linked)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}
