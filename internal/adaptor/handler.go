package adaptor

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"movie-catalogue/internal/dto/request"
	"movie-catalogue/internal/usecase"
	"movie-catalogue/pkg/apperrors"
	"movie-catalogue/pkg/session"
	"movie-catalogue/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Home   *HomeHandler
	Auth   *AuthHandler
	Movie  *MovieHandler
	Review *ReviewHandler
}

func NewHandler(service *usecase.Service, renderer *Renderer, sessions *session.Store, log *zap.Logger) *Handler {
	return &Handler{
		Home:   NewHomeHandler(service.Movie, renderer, log),
		Auth:   NewAuthHandler(service.Auth, renderer, sessions, log),
		Movie:  NewMovieHandler(service.Movie, renderer, log),
		Review: NewReviewHandler(service.Review, service.Movie, renderer, log),
	}
}

// responder maps service errors onto HTML pages or the JSON envelope.
type responder struct {
	renderer *Renderer
	log      *zap.Logger
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "The page you asked for does not exist."
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password."
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Please log in again."
	case errors.Is(err, apperrors.ErrRepository):
		return http.StatusUnprocessableEntity, "The request could not be stored."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again later."
	}
}

func (rs responder) logServiceError(r *http.Request, err error, status int, operation string) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("request_id", utils.GetRequestIDFromContext(r.Context())),
	}
	if status >= http.StatusInternalServerError {
		rs.log.Error("Failed to "+operation, fields...)
		return
	}
	rs.log.Warn(operation+" failed", fields...)
}

// handleServiceError renders the error page for err.
func (rs responder) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	status, message := errorStatus(err)
	rs.logServiceError(r, err, status, operation)
	rs.renderer.RenderError(w, r, status, message)
}

// handleAPIError writes the JSON error envelope for err.
func (rs responder) handleAPIError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	status, message := errorStatus(err)
	rs.logServiceError(r, err, status, operation)

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)
		return
	}

	if status == http.StatusNotFound {
		utils.ResponseNotFound(w, message)
		return
	}
	utils.ResponseError(w, status, message)
}

// movieID parses the {id} route parameter.
func movieID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func parseFilter(r *http.Request) (*request.MovieFilter, *request.PaginatedRequest) {
	query := r.URL.Query()
	filter := &request.MovieFilter{
		Year:  utils.ParseOptionalInt(query.Get("year")),
		Genre: strings.TrimSpace(query.Get("genre")),
		Actor: strings.TrimSpace(query.Get("actor")),
		Title: strings.TrimSpace(query.Get("title")),
	}
	page := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
	}
	return filter, page
}
