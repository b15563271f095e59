package response

import "movie-catalogue/internal/data/entity"

type GenreResponse struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	NumberOfMovies int    `json:"number_of_movies"`
	MovieIDs       []int  `json:"movie_ids"`
}

// Helper converter
func GenreToResponse(genre *entity.Genre) GenreResponse {
	ids := make([]int, len(genre.Movies))
	for i, m := range genre.Movies {
		ids[i] = m.ID
	}
	return GenreResponse{
		ID:             genre.ID,
		Name:           genre.Name,
		NumberOfMovies: genre.NumberOfMovies(),
		MovieIDs:       ids,
	}
}

func GenresToResponse(genres []*entity.Genre) []GenreResponse {
	resp := make([]GenreResponse, len(genres))
	for i, g := range genres {
		resp[i] = GenreToResponse(g)
	}
	return resp
}
