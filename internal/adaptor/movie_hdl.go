package adaptor

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"movie-catalogue/internal/dto/request"
	"movie-catalogue/internal/dto/response"
	"movie-catalogue/internal/usecase"
	"movie-catalogue/pkg/utils"

	"go.uber.org/zap"
)

type movieListData struct {
	Heading string
	Page    *response.MovieListPage

	// Query repeats the active filter ahead of the page parameter.
	Query template.URL
}

type MovieHandler struct {
	responder
	service usecase.MovieService
}

func NewMovieHandler(service usecase.MovieService, renderer *Renderer, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		responder: responder{renderer: renderer, log: log.With(zap.String("handler", "movie"))},
		service:   service,
	}
}

func listHeading(f *request.MovieFilter) string {
	if f.IsEmpty() {
		return "All movies"
	}
	switch {
	case f.Year != nil:
		return fmt.Sprintf("Movies released in %d", *f.Year)
	case f.Genre != "":
		return fmt.Sprintf("%s movies", f.Genre)
	case f.Actor != "":
		return fmt.Sprintf("Movies starring %s", f.Actor)
	default:
		return fmt.Sprintf("Titles matching %q", f.Title)
	}
}

func filterQuery(f *request.MovieFilter, perPage int) template.URL {
	values := url.Values{}
	switch {
	case f.Year != nil:
		values.Set("year", strconv.Itoa(*f.Year))
	case f.Genre != "":
		values.Set("genre", f.Genre)
	case f.Actor != "":
		values.Set("actor", f.Actor)
	case f.Title != "":
		values.Set("title", f.Title)
	}
	if perPage != request.DefaultPerPage {
		values.Set("per_page", strconv.Itoa(perPage))
	}
	if len(values) == 0 {
		return ""
	}
	return template.URL(values.Encode() + "&")
}

// ListMovies handles GET /movies
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	filter, page := parseFilter(r)

	result, err := h.service.BrowseMovies(r.Context(), filter, page)
	if err != nil {
		h.handleServiceError(w, r, err, "list movies")
		return
	}

	heading := listHeading(filter)
	h.renderer.Render(w, r, http.StatusOK, "movies", heading, movieListData{
		Heading: heading,
		Page:    result,
		Query:   filterQuery(filter, page.Limit()),
	})
}

// ShowMovie handles GET /movies/{id}
func (h *MovieHandler) ShowMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		h.renderer.RenderError(w, r, http.StatusNotFound, "The page you asked for does not exist.")
		return
	}

	movie, err := h.service.GetMovie(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err, "show movie")
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "movie", movie.Title, movie)
}

// GetMovies handles GET /api/movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	filter, page := parseFilter(r)

	result, err := h.service.BrowseMovies(r.Context(), filter, page)
	if err != nil {
		h.handleAPIError(w, r, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, "Movies retrieved successfully", result)
}

// GetMovie handles GET /api/movies/{id}
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		utils.ResponseBadRequest(w, "Movie ID must be a positive integer", nil)
		return
	}

	movie, err := h.service.GetMovie(r.Context(), id)
	if err != nil {
		h.handleAPIError(w, r, err, "get movie")
		return
	}

	utils.ResponseSuccess(w, "Movie retrieved successfully", movie)
}

// GetGenres handles GET /api/genres
func (h *MovieHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.GetGenres(r.Context())
	if err != nil {
		h.handleAPIError(w, r, err, "get genres")
		return
	}

	utils.ResponseSuccess(w, "Genres retrieved successfully", genres)
}

// GetActors handles GET /api/actors
func (h *MovieHandler) GetActors(w http.ResponseWriter, r *http.Request) {
	actors, err := h.service.GetActorNames(r.Context())
	if err != nil {
		h.handleAPIError(w, r, err, "get actors")
		return
	}

	utils.ResponseSuccess(w, "Actors retrieved successfully", actors)
}
