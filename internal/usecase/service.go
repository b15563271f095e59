package usecase

import (
	"movie-catalogue/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	Movie  MovieService
	Review ReviewService
}

func NewService(repo *repository.Repository, log *zap.Logger) *Service {
	return &Service{
		Auth:   NewAuthService(repo, log),
		Movie:  NewMovieService(repo, log),
		Review: NewReviewService(repo, log),
	}
}
