package adaptor

import (
	"errors"
	"net/http"
	"strconv"

	"movie-catalogue/internal/dto/request"
	"movie-catalogue/internal/dto/response"
	"movie-catalogue/internal/usecase"
	"movie-catalogue/pkg/apperrors"
	"movie-catalogue/pkg/utils"

	"go.uber.org/zap"
)

type reviewFormData struct {
	Movie   *response.MovieDetailResponse
	Text    string
	Message string
	Errors  map[string]string
}

type ReviewHandler struct {
	responder
	service usecase.ReviewService
	movies  usecase.MovieService
}

func NewReviewHandler(service usecase.ReviewService, movies usecase.MovieService, renderer *Renderer, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		responder: responder{renderer: renderer, log: log.With(zap.String("handler", "review"))},
		service:   service,
		movies:    movies,
	}
}

// ReviewForm handles GET /movies/{id}/review
func (h *ReviewHandler) ReviewForm(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		h.renderer.RenderError(w, r, http.StatusNotFound, "The page you asked for does not exist.")
		return
	}

	movie, err := h.movies.GetMovie(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err, "show review form")
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "review", "Review "+movie.Title, reviewFormData{Movie: movie})
}

// SubmitReview handles POST /movies/{id}/review
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		h.renderer.RenderError(w, r, http.StatusNotFound, "The page you asked for does not exist.")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	username, _ := utils.GetUsernameFromContext(r.Context())
	req := &request.CreateReviewRequest{
		MovieID: id,
		Text:    r.PostForm.Get("review"),
	}

	_, err := h.service.AddReview(r.Context(), username, req)
	var verr *apperrors.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, "/movies/"+strconv.Itoa(id), http.StatusSeeOther)
	case errors.As(err, &verr):
		movie, merr := h.movies.GetMovie(r.Context(), id)
		if merr != nil {
			h.handleServiceError(w, r, merr, "show review form")
			return
		}
		h.renderer.Render(w, r, http.StatusBadRequest, "review", "Review "+movie.Title, reviewFormData{
			Movie:  movie,
			Text:   req.Text,
			Errors: verr.Fields,
		})
	case errors.Is(err, apperrors.ErrUnauthorized):
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
	default:
		h.handleServiceError(w, r, err, "submit review")
	}
}

// UserReviews handles GET /user/reviews
func (h *ReviewHandler) UserReviews(w http.ResponseWriter, r *http.Request) {
	username, _ := utils.GetUsernameFromContext(r.Context())

	reviews, err := h.service.GetUserReviews(r.Context(), username)
	if err != nil {
		h.handleServiceError(w, r, err, "list user reviews")
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "user_reviews", "My reviews", reviews)
}

// GetMovieReviews handles GET /api/movies/{id}/reviews
func (h *ReviewHandler) GetMovieReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		utils.ResponseBadRequest(w, "Movie ID must be a positive integer", nil)
		return
	}

	reviews, err := h.service.GetMovieReviews(r.Context(), id)
	if err != nil {
		h.handleAPIError(w, r, err, "get movie reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}
