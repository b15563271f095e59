package wire

import (
	"movie-catalogue/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r, api chi.Router, movieHandler *adaptor.MovieHandler) {
	// ==================== PAGES ====================
	r.Get("/movies", movieHandler.ListMovies)
	r.Get("/movies/{id}", movieHandler.ShowMovie)

	// ==================== JSON API ====================
	api.Get("/movies", movieHandler.GetMovies)
	api.Get("/movies/{id}", movieHandler.GetMovie)
	api.Get("/genres", movieHandler.GetGenres)
	api.Get("/actors", movieHandler.GetActors)
}
