package wire

import (
	"movie-catalogue/internal/adaptor"
	"movie-catalogue/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(r, api chi.Router, reviewHandler *adaptor.ReviewHandler, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	api.Get("/movies/{id}/reviews", reviewHandler.GetMovieReviews)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin(log))

		r.Get("/movies/{id}/review", reviewHandler.ReviewForm)
		r.Post("/movies/{id}/review", reviewHandler.SubmitReview)
		r.Get("/user/reviews", reviewHandler.UserReviews)
	})
}
