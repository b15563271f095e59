package usecase

import (
	"context"
	"errors"
	"fmt"

	"movie-catalogue/internal/data/entity"
	"movie-catalogue/internal/data/repository"
	"movie-catalogue/internal/dto/request"
	"movie-catalogue/internal/dto/response"
	"movie-catalogue/pkg/apperrors"
	"movie-catalogue/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, username string) (*response.UserResponse, error)
}

type authService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAuthService(repo *repository.Repository, log *zap.Logger) AuthService {
	return &authService{
		repo: repo,
		log:  log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, apperrors.NewValidationError(errs, utils.FormatValidationErrors(errs))
	}

	// 2. Username must be free
	existing, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username %s is already taken: %w", existing.Username, apperrors.ErrConflict)
	}

	// 3. Hash password
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. Save user
	user := entity.NewUser(req.Username, hashed)
	if err := s.repo.User.Create(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.log.Error("Failed to create user", zap.Error(err), zap.String("username", user.Username))
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info("User registered",
		zap.Int("user_id", user.ID),
		zap.String("username", user.Username))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidationError(errs, utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.log.Warn("Login attempt with unknown username", zap.String("username", req.Username))
		return nil, apperrors.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Login attempt with wrong password", zap.String("username", user.Username))
		return nil, apperrors.ErrInvalidCredentials
	}

	s.log.Info("User logged in", zap.String("username", user.Username))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) GetUser(ctx context.Context, username string) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", username, apperrors.ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
