package adaptor

import (
	"net/http"

	"movie-catalogue/internal/dto/response"
	"movie-catalogue/internal/usecase"

	"go.uber.org/zap"
)

// SelectedMovies is how many random movies the home page features.
const SelectedMovies = 3

type homeData struct {
	Selected []response.MovieResponse
	Genres   []string
	Years    []int
	First    *response.MovieResponse
	Last     *response.MovieResponse
}

type HomeHandler struct {
	responder
	service usecase.MovieService
}

func NewHomeHandler(service usecase.MovieService, renderer *Renderer, log *zap.Logger) *HomeHandler {
	return &HomeHandler{
		responder: responder{renderer: renderer, log: log.With(zap.String("handler", "home"))},
		service:   service,
	}
}

// Home handles GET /
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := homeData{}

	var err error
	if data.Selected, err = h.service.GetRandomMovies(ctx, SelectedMovies); err != nil {
		h.handleServiceError(w, r, err, "load home page")
		return
	}
	if data.Genres, err = h.service.GetGenreNames(ctx); err != nil {
		h.handleServiceError(w, r, err, "load home page")
		return
	}
	if data.Years, err = h.service.GetReleaseYears(ctx); err != nil {
		h.handleServiceError(w, r, err, "load home page")
		return
	}

	// An empty catalogue has no first or last movie.
	if len(data.Selected) > 0 {
		if data.First, err = h.service.GetFirstMovie(ctx); err != nil {
			h.handleServiceError(w, r, err, "load home page")
			return
		}
		if data.Last, err = h.service.GetLastMovie(ctx); err != nil {
			h.handleServiceError(w, r, err, "load home page")
			return
		}
	}

	h.renderer.Render(w, r, http.StatusOK, "home", "Home", data)
}
