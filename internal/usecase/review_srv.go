package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-catalogue/internal/data/entity"
	"movie-catalogue/internal/data/repository"
	"movie-catalogue/internal/dto/request"
	"movie-catalogue/internal/dto/response"
	"movie-catalogue/pkg/apperrors"
	"movie-catalogue/pkg/utils"

	"go.uber.org/zap"
)

type ReviewService interface {
	AddReview(ctx context.Context, username string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetMovieReviews(ctx context.Context, movieID int) ([]response.ReviewResponse, error)
	GetUserReviews(ctx context.Context, username string) ([]response.ReviewResponse, error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) AddReview(ctx context.Context, username string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidationError(errs, utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find review author: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("review author %s: %w", username, apperrors.ErrUnauthorized)
	}

	movie, err := s.repo.Movie.FindByID(ctx, req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("find reviewed movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %d: %w", req.MovieID, apperrors.ErrNotFound)
	}

	review := entity.NewReview(movie, req.Text, user, time.Now())
	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("username", user.Username),
			zap.Int("movie_id", movie.ID),
		)
		return nil, fmt.Errorf("add review: %w", err)
	}

	s.log.Info("Review added",
		zap.Int("review_id", review.ID),
		zap.String("username", user.Username),
		zap.Int("movie_id", movie.ID),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetMovieReviews(ctx context.Context, movieID int) ([]response.ReviewResponse, error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie %d: %w", movieID, err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %d: %w", movieID, apperrors.ErrNotFound)
	}

	reviews, err := s.repo.Review.FindByMovieID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie reviews %d: %w", movieID, err)
	}
	return response.ReviewsToResponse(reviews), nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, username string) ([]response.ReviewResponse, error) {
	user, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", username, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", username, apperrors.ErrNotFound)
	}

	reviews, err := s.repo.Review.FindByUsername(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("get user reviews %s: %w", username, err)
	}
	return response.ReviewsToResponse(reviews), nil
}
