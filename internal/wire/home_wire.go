package wire

import (
	"movie-catalogue/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireHome(r chi.Router, homeHandler *adaptor.HomeHandler) {
	r.Get("/", homeHandler.Home)
}
