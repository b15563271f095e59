package wire

import (
	"time"

	"movie-catalogue/internal/adaptor"
	"movie-catalogue/pkg/middleware"
	"movie-catalogue/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, config *utils.Config) {
	limit := middleware.RateLimit(
		config.RateLimit.Requests,
		time.Duration(config.RateLimit.WindowSeconds)*time.Second,
	)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/register", authHandler.RegisterForm)
		r.With(limit).Post("/register", authHandler.Register)

		r.Get("/login", authHandler.LoginForm)
		r.With(limit).Post("/login", authHandler.Login)

		r.Get("/logout", authHandler.Logout)
	})
}
