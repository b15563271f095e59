package response

import (
	"movie-catalogue/internal/data/entity"
)

type MovieResponse struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ReleaseYear int      `json:"release_year"`
	Description string   `json:"description,omitempty"`
	Director    string   `json:"director,omitempty"`
	Actors      []string `json:"actors"`
	Genres      []string `json:"genres"`
	ReviewCount int      `json:"review_count"`
}

type MovieDetailResponse struct {
	MovieResponse
	Reviews []ReviewResponse `json:"reviews"`
	PrevID  int              `json:"prev_id,omitempty"`
	NextID  int              `json:"next_id,omitempty"`
}

// MovieListPage is one page of a filtered listing. PrevYear and NextYear
// are set for year listings when a neighboring year has movies.
type MovieListPage struct {
	*PaginatedResponse[MovieResponse]
	Year     *int `json:"year,omitempty"`
	PrevYear *int `json:"prev_year,omitempty"`
	NextYear *int `json:"next_year,omitempty"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	actors := movie.Actors
	if actors == nil {
		actors = []string{}
	}

	return MovieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		ReleaseYear: movie.ReleaseYear,
		Description: movie.Description,
		Director:    movie.Director,
		Actors:      actors,
		Genres:      movie.GenreNames(),
		ReviewCount: len(movie.Reviews),
	}
}

func MoviesToResponse(movies []*entity.Movie) []MovieResponse {
	resp := make([]MovieResponse, len(movies))
	for i, m := range movies {
		resp[i] = MovieToResponse(m)
	}
	return resp
}

func MovieToDetailResponse(movie *entity.Movie, prevID, nextID int) MovieDetailResponse {
	return MovieDetailResponse{
		MovieResponse: MovieToResponse(movie),
		Reviews:       ReviewsToResponse(movie.Reviews),
		PrevID:        prevID,
		NextID:        nextID,
	}
}
