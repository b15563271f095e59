package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"movie-catalogue/internal/data/repository"
	"movie-catalogue/internal/data/seed"
	"movie-catalogue/pkg/utils"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testClient struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	ds, err := seed.Load("../../data", utils.HashPassword)
	require.NoError(t, err)

	repo := repository.NewMemoryRepository(zap.NewNop())
	require.NoError(t, repo.Seeder.Populate(context.Background(), ds))

	config := &utils.Config{
		Session:   utils.SessionConfig{Secret: "test-secret", MaxAgeMinutes: 60},
		RateLimit: utils.RateLimitConfig{Requests: 100, WindowSeconds: 60},
		CORS:      utils.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	app, err := Wiring(repo, config, zap.NewNop())
	require.NoError(t, err)

	return &testClient{t: t, handler: app.Router}
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return rec
}

func (c *testClient) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *testClient) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *testClient) login(username, password string) {
	rec := c.post("/auth/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(c.t, http.StatusSeeOther, rec.Code)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  map[string]any  `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)

	rec := c.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHomePage(t *testing.T) {
	c := newTestClient(t)

	rec := c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Browse by genre")
	assert.Contains(t, body, `href="/movies?genre=Sci-Fi"`)
	assert.Contains(t, body, `href="/movies?year=2012"`)
	assert.Contains(t, body, "Guardians of the Galaxy")
	assert.Contains(t, body, `href="/auth/login"`)
}

func TestMoviePages(t *testing.T) {
	c := newTestClient(t)

	t.Run("listing by genre", func(t *testing.T) {
		rec := c.get("/movies?genre=Comedy")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Comedy movies")
		assert.NotContains(t, rec.Body.String(), "Prometheus")
	})

	t.Run("listing by year links neighbours", func(t *testing.T) {
		rec := c.get("/movies?year=2014")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Movies released in 2014")
		assert.Contains(t, body, `href="/movies?year=2012"`)
		assert.Contains(t, body, `href="/movies?year=2016"`)
	})

	t.Run("pagination keeps the filter", func(t *testing.T) {
		rec := c.get("/movies?genre=Adventure&per_page=2")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `href="/movies?genre=Adventure&amp;per_page=2&amp;page=2"`)
	})

	t.Run("detail shows reviews", func(t *testing.T) {
		rec := c.get("/movies/1")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Guardians of the Galaxy")
		assert.Contains(t, body, "I love this movie")
		assert.Contains(t, body, "fmercury")
		assert.Contains(t, body, `href="/movies/2"`)
	})

	t.Run("unknown movie", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, c.get("/movies/999").Code)
		assert.Equal(t, http.StatusNotFound, c.get("/movies/abc").Code)
	})
}

func TestAPI(t *testing.T) {
	c := newTestClient(t)

	t.Run("movies by year", func(t *testing.T) {
		rec := c.get("/api/movies?year=2016")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var page struct {
			Data []struct {
				ID int `json:"id"`
			} `json:"data"`
			PrevYear *int `json:"prev_year"`
			NextYear *int `json:"next_year"`
		}
		env := decode(t, rec, &page)
		assert.True(t, env.Status)
		assert.Len(t, page.Data, 8)
		require.NotNil(t, page.PrevYear)
		assert.Equal(t, 2014, *page.PrevYear)
		assert.Nil(t, page.NextYear)
	})

	t.Run("movie detail", func(t *testing.T) {
		var movie struct {
			Title   string `json:"title"`
			Reviews []any  `json:"reviews"`
			NextID  int    `json:"next_id"`
		}
		decode(t, c.get("/api/movies/1"), &movie)
		assert.Equal(t, "Guardians of the Galaxy", movie.Title)
		assert.Len(t, movie.Reviews, 2)
		assert.Equal(t, 2, movie.NextID)
	})

	t.Run("page past the end", func(t *testing.T) {
		for _, target := range []string{
			"/movies?page=9223372036854775807",
			"/api/movies?page=9223372036854775807",
			"/api/movies?genre=Action&page=9223372036854775807",
			"/api/movies?per_page=7&page=4611686018427387904",
		} {
			rec := c.get(target)
			require.Equal(t, http.StatusOK, rec.Code, target)
			if strings.HasPrefix(target, "/api/") {
				var page struct {
					Data []any `json:"data"`
				}
				decode(t, rec, &page)
				assert.Empty(t, page.Data, target)
			}
		}
	})

	t.Run("bad id", func(t *testing.T) {
		rec := c.get("/api/movies/zero")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, decode(t, rec, nil).Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, c.get("/api/movies/999").Code)
	})

	t.Run("reviews", func(t *testing.T) {
		var reviews []struct {
			Username string `json:"username"`
			Text     string `json:"review"`
		}
		decode(t, c.get("/api/movies/1/reviews"), &reviews)
		require.Len(t, reviews, 2)
		assert.Equal(t, "fmercury", reviews[0].Username)
		assert.Equal(t, "Master piece!", reviews[1].Text)
	})

	t.Run("genres and actors", func(t *testing.T) {
		var genres []struct {
			Name           string `json:"name"`
			NumberOfMovies int    `json:"number_of_movies"`
		}
		decode(t, c.get("/api/genres"), &genres)
		assert.Len(t, genres, 14)

		var actors []string
		decode(t, c.get("/api/actors"), &actors)
		assert.Len(t, actors, 39)
		assert.Equal(t, "Andrea Riseborough", actors[0])
	})

	t.Run("cors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/genres", nil)
		req.Header.Set("Origin", "http://example.com")
		rec := c.do(req)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestReviewRequiresLogin(t *testing.T) {
	c := newTestClient(t)

	rec := c.get("/movies/1/review")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login?next=%2Fmovies%2F1%2Freview", rec.Header().Get("Location"))

	rec = c.get("/user/reviews")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestLoginAndReview(t *testing.T) {
	c := newTestClient(t)

	rec := c.post("/auth/login", url.Values{
		"username": {"FMercury"},
		"password": {"8734gfe2058v"},
		"next":     {"/movies/2/review"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movies/2/review", rec.Header().Get("Location"))
	require.NotEmpty(t, c.cookies)

	rec = c.get("/movies/2/review")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Prometheus")
	assert.Contains(t, rec.Body.String(), "fmercury")

	t.Run("too short", func(t *testing.T) {
		rec := c.post("/movies/2/review", url.Values{"review": {"meh"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Minimum length is 4")
	})

	t.Run("saved", func(t *testing.T) {
		rec := c.post("/movies/2/review", url.Values{"review": {"Beautiful and strange"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/movies/2", rec.Header().Get("Location"))

		page := c.get("/movies/2")
		assert.Contains(t, page.Body.String(), "Beautiful and strange")

		mine := c.get("/user/reviews")
		require.Equal(t, http.StatusOK, mine.Code)
		assert.Contains(t, mine.Body.String(), "Beautiful and strange")
		assert.Contains(t, mine.Body.String(), "I love this movie")
	})

	t.Run("unknown movie", func(t *testing.T) {
		rec := c.post("/movies/999/review", url.Values{"review": {"Never made"}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("logout", func(t *testing.T) {
		rec := c.get("/auth/logout")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, http.StatusSeeOther, c.get("/user/reviews").Code)
	})
}

func TestLogin_Failures(t *testing.T) {
	c := newTestClient(t)

	rec := c.post("/auth/login", url.Values{"username": {"thorke"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password.")
	assert.Contains(t, rec.Body.String(), `value="thorke"`)

	rec = c.post("/auth/login", url.Values{"username": {"thorke"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required")
}

func TestLogin_IgnoresForeignNext(t *testing.T) {
	c := newTestClient(t)

	rec := c.post("/auth/login", url.Values{
		"username": {"thorke"},
		"password": {"902fjsdf"},
		"next":     {"//evil.example.com"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRegister(t *testing.T) {
	c := newTestClient(t)

	rec := c.get("/auth/register")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.post("/auth/register", url.Values{"username": {"Shaun"}, "password": {"Abcdefg1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	c.login("shaun", "Abcdefg1")

	rec = c.post("/auth/register", url.Values{"username": {"thorke"}, "password": {"Abcdefg1"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already taken")

	rec = c.post("/auth/register", url.Values{"username": {"newbie"}, "password": {"weakpass"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "upper case")
}

func TestMetricsEndpoint(t *testing.T) {
	c := newTestClient(t)
	c.get("/health")

	rec := c.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "movie_catalogue_http_requests_total")
}
