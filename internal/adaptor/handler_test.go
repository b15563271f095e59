package adaptor

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"movie-catalogue/internal/dto/request"
	"movie-catalogue/pkg/apperrors"
	"movie-catalogue/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                   "/",
		"/movies/1/review":   "/movies/1/review",
		"//evil.example.com": "/",
		"/\\evil":            "/",
		"https://evil.com":   "/",
		"movies":             "/",
		"/user/reviews?x=1":  "/user/reviews?x=1",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeNext(in), in)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("movie 3: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{apperrors.NewValidationError(map[string]string{"Text": "required"}, "Text: required"), http.StatusBadRequest},
		{fmt.Errorf("dup: %w", apperrors.ErrConflict), http.StatusConflict},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("review: %w", apperrors.ErrRepository), http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, message := errorStatus(tt.err)
		assert.Equal(t, tt.want, status, tt.err.Error())
		assert.NotEmpty(t, message)
	}
}

func TestParseFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/movies?year=2016&genre=+Action+&page=2&per_page=5", nil)
	filter, page := parseFilter(r)

	require.NotNil(t, filter.Year)
	assert.Equal(t, 2016, *filter.Year)
	assert.Equal(t, "Action", filter.Genre)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.Limit())

	filter, page = parseFilter(httptest.NewRequest(http.MethodGet, "/movies?year=abc", nil))
	assert.Nil(t, filter.Year)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, request.DefaultPerPage, page.Limit())
}

func TestMovieID(t *testing.T) {
	for raw, want := range map[string]bool{"7": true, "0": false, "-3": false, "x": false} {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", raw)
		r := httptest.NewRequest(http.MethodGet, "/movies/"+raw, nil)
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

		_, ok := movieID(r)
		assert.Equal(t, want, ok, raw)
	}
}

func TestListHeadingAndQuery(t *testing.T) {
	year := &request.MovieFilter{Year: intPtr(2014), Genre: "Action"}
	assert.Equal(t, "Movies released in 2014", listHeading(year))
	assert.Equal(t, template.URL("year=2014&"), filterQuery(year, request.DefaultPerPage))

	actor := &request.MovieFilter{Actor: "Chris Pratt"}
	assert.Equal(t, "Movies starring Chris Pratt", listHeading(actor))
	assert.Equal(t, template.URL("actor=Chris+Pratt&per_page=5&"), filterQuery(actor, 5))

	all := &request.MovieFilter{}
	assert.Equal(t, "All movies", listHeading(all))
	assert.Equal(t, template.URL(""), filterQuery(all, request.DefaultPerPage))

	blank := &request.MovieFilter{Title: "   "}
	assert.True(t, blank.IsEmpty())
	assert.Equal(t, "All movies", listHeading(blank))
}

func TestRenderer(t *testing.T) {
	renderer, err := NewRenderer(zap.NewNop())
	require.NoError(t, err)

	t.Run("error page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		renderer.RenderError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), http.StatusNotFound, "Nothing <here>")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "Nothing &lt;here&gt;")
		assert.Contains(t, rec.Body.String(), "Not Found | Movie Catalogue")
	})

	t.Run("logged in header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
		r = r.WithContext(utils.SetUsernameContext(r.Context(), "thorke"))

		rec := httptest.NewRecorder()
		renderer.Render(rec, r, http.StatusOK, "login", "Log in", authFormData{Next: "/"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `href="/auth/logout"`)
		assert.Contains(t, rec.Body.String(), "thorke")
	})

	t.Run("unknown page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		renderer.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing", "", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
