package usecase

import (
	"context"
	"fmt"
	"strings"

	"movie-catalogue/internal/data/entity"
	"movie-catalogue/internal/data/repository"
	"movie-catalogue/internal/dto/request"
	"movie-catalogue/internal/dto/response"
	"movie-catalogue/pkg/apperrors"
	"movie-catalogue/pkg/utils"

	"go.uber.org/zap"
)

type MovieService interface {
	BrowseMovies(ctx context.Context, filter *request.MovieFilter, page *request.PaginatedRequest) (*response.MovieListPage, error)
	GetMovie(ctx context.Context, id int) (*response.MovieDetailResponse, error)
	GetRandomMovies(ctx context.Context, n int) ([]response.MovieResponse, error)
	GetGenres(ctx context.Context) ([]response.GenreResponse, error)
	GetGenreNames(ctx context.Context) ([]string, error)
	GetActorNames(ctx context.Context) ([]string, error)
	GetReleaseYears(ctx context.Context) ([]int, error)
	GetFirstMovie(ctx context.Context) (*response.MovieResponse, error)
	GetLastMovie(ctx context.Context) (*response.MovieResponse, error)
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(repo *repository.Repository, log *zap.Logger) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

// BrowseMovies lists one page of movies matching the first criterion set in
// filter. Year listings also report the neighboring release years.
func (s *movieService) BrowseMovies(ctx context.Context, filter *request.MovieFilter, page *request.PaginatedRequest) (*response.MovieListPage, error) {
	if errs := utils.ValidateStruct(filter); len(errs) > 0 {
		return nil, apperrors.NewValidationError(errs, utils.FormatValidationErrors(errs))
	}
	if page.Page < 1 {
		page.Page = 1
	}
	perPage := page.Limit()

	var (
		movies []*entity.Movie
		total  int64
		err    error
	)
	result := &response.MovieListPage{}

	switch {
	case filter.Year != nil:
		movies, err = s.repo.Movie.FindByReleaseYear(ctx, filter.Year)
		if err != nil {
			return nil, fmt.Errorf("find movies by year %d: %w", *filter.Year, err)
		}
		total = int64(len(movies))
		movies = utils.Paginate(movies, page.Page, perPage)

		result.Year = filter.Year
		if result.PrevYear, result.NextYear, err = s.adjacentYears(ctx, *filter.Year); err != nil {
			return nil, err
		}

	case strings.TrimSpace(filter.Genre) != "":
		movies, total, err = s.moviesByIDs(ctx, page.Page, perPage, func() ([]int, error) {
			return s.repo.Movie.FindIDsByGenre(ctx, filter.Genre)
		})

	case strings.TrimSpace(filter.Actor) != "":
		movies, total, err = s.moviesByIDs(ctx, page.Page, perPage, func() ([]int, error) {
			return s.repo.Movie.FindIDsByActor(ctx, filter.Actor)
		})

	case strings.TrimSpace(filter.Title) != "":
		movies, total, err = s.moviesByIDs(ctx, page.Page, perPage, func() ([]int, error) {
			return s.repo.Movie.FindIDsByTitle(ctx, filter.Title)
		})

	default:
		movies, err = s.repo.Movie.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("find all movies: %w", err)
		}
		total = int64(len(movies))
		movies = utils.Paginate(movies, page.Page, perPage)
	}
	if err != nil {
		return nil, err
	}

	result.PaginatedResponse = response.NewPaginatedResponse(response.MoviesToResponse(movies), page.Page, perPage, total)

	s.log.Debug("Movies browsed",
		zap.Any("filter", filter),
		zap.Int("page", page.Page),
		zap.Int("count", len(movies)),
		zap.Int64("total", total),
	)

	return result, nil
}

// moviesByIDs pages the matching ids before loading the movies.
func (s *movieService) moviesByIDs(ctx context.Context, page, perPage int, find func() ([]int, error)) ([]*entity.Movie, int64, error) {
	ids, err := find()
	if err != nil {
		return nil, 0, fmt.Errorf("find movie ids: %w", err)
	}

	pageIDs := utils.Paginate(ids, page, perPage)
	if len(pageIDs) == 0 {
		return []*entity.Movie{}, int64(len(ids)), nil
	}

	movies, err := s.repo.Movie.FindByIDs(ctx, pageIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("find movies by ids: %w", err)
	}
	return movies, int64(len(ids)), nil
}

func (s *movieService) adjacentYears(ctx context.Context, year int) (*int, *int, error) {
	years, err := s.repo.Movie.FindReleaseYears(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("find release years: %w", err)
	}

	var prev, next *int
	for _, y := range years {
		if y < year {
			prev = &y
		}
		if y > year {
			next = &y
			break
		}
	}
	return prev, next, nil
}

func (s *movieService) GetMovie(ctx context.Context, id int) (*response.MovieDetailResponse, error) {
	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get movie by ID", zap.Error(err), zap.Int("movie_id", id))
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %d: %w", id, apperrors.ErrNotFound)
	}

	prevID, nextID, err := s.repo.Movie.FindAdjacentIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get adjacent movies %d: %w", id, err)
	}

	resp := response.MovieToDetailResponse(movie, prevID, nextID)
	return &resp, nil
}

// GetRandomMovies returns up to n distinct movies in random order.
func (s *movieService) GetRandomMovies(ctx context.Context, n int) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get random movies: %w", err)
	}

	picked := make([]*entity.Movie, 0, n)
	for _, i := range utils.RandomSample(len(movies), n) {
		picked = append(picked, movies[i])
	}
	return response.MoviesToResponse(picked), nil
}

func (s *movieService) GetGenres(ctx context.Context) ([]response.GenreResponse, error) {
	genres, err := s.repo.Genre.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get genres: %w", err)
	}
	return response.GenresToResponse(genres), nil
}

func (s *movieService) GetGenreNames(ctx context.Context) ([]string, error) {
	genres, err := s.repo.Genre.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get genre names: %w", err)
	}

	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return names, nil
}

func (s *movieService) GetActorNames(ctx context.Context) ([]string, error) {
	names, err := s.repo.Movie.FindActorNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("get actor names: %w", err)
	}
	return names, nil
}

func (s *movieService) GetReleaseYears(ctx context.Context) ([]int, error) {
	years, err := s.repo.Movie.FindReleaseYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("get release years: %w", err)
	}
	return years, nil
}

func (s *movieService) GetFirstMovie(ctx context.Context) (*response.MovieResponse, error) {
	movie, err := s.repo.Movie.FindFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("get first movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("first movie: %w", apperrors.ErrNotFound)
	}
	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) GetLastMovie(ctx context.Context) (*response.MovieResponse, error) {
	movie, err := s.repo.Movie.FindLast(ctx)
	if err != nil {
		return nil, fmt.Errorf("get last movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("last movie: %w", apperrors.ErrNotFound)
	}
	resp := response.MovieToResponse(movie)
	return &resp, nil
}
