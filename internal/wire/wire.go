// internal/wire/wire.go
package wire

import (
	"fmt"
	"net/http"
	"time"

	"movie-catalogue/internal/adaptor"
	"movie-catalogue/internal/data/repository"
	"movie-catalogue/internal/usecase"
	"movie-catalogue/pkg/middleware"
	"movie-catalogue/pkg/session"
	"movie-catalogue/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired application.
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes on top of repo.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	renderer, err := adaptor.NewRenderer(logger)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	sessions := session.NewStore(
		config.Session.Secret,
		int((time.Duration(config.Session.MaxAgeMinutes) * time.Minute).Seconds()),
		config.Session.Secure,
	)

	service := usecase.NewService(repo, logger)
	handler := adaptor.NewHandler(service, renderer, sessions, logger)

	return &App{
		Router: setupRouter(handler, sessions, config, logger),
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	sessions *session.Store,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.LoadUser(sessions))

	api := r.Route("/api", func(api chi.Router) {
		api.Use(middleware.CORS(config.CORS.AllowedOrigins))
	})

	wireHome(r, handler.Home)
	wireMovie(r, api, handler.Movie)
	wireAuth(r, handler.Auth, config)
	wireReview(r, api, handler.Review, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	return r
}
