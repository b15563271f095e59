package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"movie-catalogue/internal/dto/request"
	"movie-catalogue/internal/usecase"
	"movie-catalogue/pkg/apperrors"
	"movie-catalogue/pkg/session"

	"go.uber.org/zap"
)

type authFormData struct {
	Username string
	Next     string
	Message  string
	Errors   map[string]string
}

type AuthHandler struct {
	responder
	service  usecase.AuthService
	sessions *session.Store
}

func NewAuthHandler(service usecase.AuthService, renderer *Renderer, sessions *session.Store, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		responder: responder{renderer: renderer, log: log.With(zap.String("handler", "auth"))},
		service:   service,
		sessions:  sessions,
	}
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// RegisterForm handles GET /auth/register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "register", "Register", authFormData{})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	req := &request.RegisterRequest{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	form := authFormData{Username: req.Username}

	_, err := h.service.Register(r.Context(), req)
	var verr *apperrors.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
	case errors.As(err, &verr):
		form.Errors = verr.Fields
		h.renderer.Render(w, r, http.StatusBadRequest, "register", "Register", form)
	case errors.Is(err, apperrors.ErrConflict):
		form.Message = "Your username is already taken, please choose another."
		h.renderer.Render(w, r, http.StatusConflict, "register", "Register", form)
	default:
		h.handleServiceError(w, r, err, "register")
	}
}

// LoginForm handles GET /auth/login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "login", "Log in", authFormData{
		Next: safeNext(r.URL.Query().Get("next")),
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	req := &request.LoginRequest{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	form := authFormData{
		Username: req.Username,
		Next:     safeNext(r.PostForm.Get("next")),
	}

	user, err := h.service.Login(r.Context(), req)
	var verr *apperrors.ValidationError
	switch {
	case err == nil:
		if err := h.sessions.Login(w, r, user.Username); err != nil {
			h.handleServiceError(w, r, err, "save session")
			return
		}
		http.Redirect(w, r, form.Next, http.StatusSeeOther)
	case errors.As(err, &verr):
		form.Errors = verr.Fields
		h.renderer.Render(w, r, http.StatusBadRequest, "login", "Log in", form)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		form.Message = "Invalid username or password."
		h.renderer.Render(w, r, http.StatusUnauthorized, "login", "Log in", form)
	default:
		h.handleServiceError(w, r, err, "login")
	}
}

// Logout handles GET /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.log.Warn("Failed to clear session", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
