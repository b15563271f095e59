package middleware

import (
	"net/http"
	"net/url"

	"movie-catalogue/pkg/session"
	"movie-catalogue/pkg/utils"

	"go.uber.org/zap"
)

// LoadUser puts the session's username, if any, into the request context.
func LoadUser(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username, ok := store.CurrentUser(r); ok {
				r = r.WithContext(utils.SetUsernameContext(r.Context(), username))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin redirects anonymous visitors to the login page and brings
// them back afterwards.
func RequireLogin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetUsernameFromContext(r.Context()); !ok {
				logger.Debug("Login required",
					zap.String("path", r.URL.Path),
					zap.String("request_id", utils.GetRequestIDFromContext(r.Context())),
				)
				http.Redirect(w, r, "/auth/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
