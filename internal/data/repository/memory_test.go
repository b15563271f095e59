package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"movie-catalogue/internal/data/entity"
	"movie-catalogue/internal/data/seed"
	"movie-catalogue/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const dataDir = "../../../data"

func newSeededRepository(t *testing.T) *Repository {
	t.Helper()

	ds, err := seed.Load(dataDir, func(p string) (string, error) { return "hashed:" + p, nil })
	require.NoError(t, err)

	repo := NewMemoryRepository(zap.NewNop())
	require.NoError(t, repo.Seeder.Populate(context.Background(), ds))
	return repo
}

func TestMemorySeeder_IsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())

	empty, err := repo.Seeder.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	repo = newSeededRepository(t)
	empty, err = repo.Seeder.IsEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestMemoryUser_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	user := entity.NewUser("Dave", "123456789")
	require.NoError(t, repo.User.Create(ctx, user))
	assert.Equal(t, 4, user.ID)

	found, err := repo.User.FindByUsername(ctx, "DAVE")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "dave", found.Username)
	assert.NotSame(t, user, found)

	count, err := repo.User.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	err = repo.User.Create(ctx, entity.NewUser("thorke", "x"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMemoryUser_MissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	user, err := repo.User.FindByUsername(ctx, "prince")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.User.FindByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.User.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "thorke", user.Username)
	assert.Equal(t, "hashed:902fjsdf", user.PasswordHash)
}

func TestMemoryMovie_Counts(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	count, err := repo.Movie.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, count)

	first, err := repo.Movie.FindFirst(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Guardians of the Galaxy", first.Title)

	last, err := repo.Movie.FindLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Passengers", last.Title)
}

func TestMemoryMovie_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	movie, err := repo.Movie.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, 2014, movie.ReleaseYear)
	assert.Equal(t, []string{"Action", "Adventure", "Sci-Fi"}, movie.GenreNames())
	assert.Len(t, movie.Reviews, 2)
	assert.Equal(t, "fmercury", movie.Reviews[0].User.Username)

	movie, err = repo.Movie.FindByID(ctx, 11)
	require.NoError(t, err)
	assert.Nil(t, movie)
}

func TestMemoryMovie_FindByIDs(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	movies, err := repo.Movie.FindByIDs(ctx, []int{9, 3, 42, 1})
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, []int{1, 3, 9}, []int{movies[0].ID, movies[1].ID, movies[2].ID})

	movies, err = repo.Movie.FindByIDs(ctx, []int{0, 42})
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestMemoryMovie_FindByReleaseYear(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	year := 2016
	movies, err := repo.Movie.FindByReleaseYear(ctx, &year)
	require.NoError(t, err)
	assert.Len(t, movies, 8)

	year = 2014
	movies, err = repo.Movie.FindByReleaseYear(ctx, &year)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Guardians of the Galaxy", movies[0].Title)

	year = 2017
	movies, err = repo.Movie.FindByReleaseYear(ctx, &year)
	require.NoError(t, err)
	assert.Empty(t, movies)

	movies, err = repo.Movie.FindByReleaseYear(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, movies, 10)
}

func TestMemoryMovie_FindIDsByGenre(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	cases := map[string][]int{
		"Action":    {1, 5, 6, 9},
		"Adventure": {1, 2, 5, 6, 9, 10},
		"Sci-Fi":    {1, 2},
		"Mystery":   {2},
		"Comedy":    {4, 7, 8},
		"Western":   {},
	}
	for genre, want := range cases {
		ids, err := repo.Movie.FindIDsByGenre(ctx, genre)
		require.NoError(t, err)
		assert.Equal(t, want, ids, genre)
	}
}

func TestMemoryMovie_FindIDsByActorAndTitle(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	ids, err := repo.Movie.FindIDsByActor(ctx, "chris pratt")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 10}, ids)

	ids, err = repo.Movie.FindIDsByActor(ctx, "Chris")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = repo.Movie.FindIDsByTitle(ctx, "the")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 6, 9}, ids)
}

func TestMemoryMovie_Navigation(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	prev, next, err := repo.Movie.FindAdjacentIDs(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, prev)
	assert.Equal(t, 6, next)

	prev, next, err = repo.Movie.FindAdjacentIDs(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, prev)
	assert.Equal(t, 2, next)

	prev, next, err = repo.Movie.FindAdjacentIDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 9, prev)
	assert.Zero(t, next)

	years, err := repo.Movie.FindReleaseYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2012, 2014, 2016}, years)

	actors, err := repo.Movie.FindActorNames(ctx)
	require.NoError(t, err)
	assert.Len(t, actors, 39)
	assert.Equal(t, "Andrea Riseborough", actors[0])
}

func TestMemoryMovie_Create(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	movie := entity.NewMovie("Moana", 2016, 0)
	movie.AddGenre(entity.NewGenre("Animation"))
	movie.AddGenre(entity.NewGenre("Musical"))
	require.NoError(t, repo.Movie.Create(ctx, movie))
	assert.Equal(t, 11, movie.ID)

	animation, err := repo.Genre.FindByName(ctx, "Animation")
	require.NoError(t, err)
	assert.Equal(t, 2, animation.NumberOfMovies())
	assert.Positive(t, movie.Genres[0].ID)

	stored, err := repo.Movie.FindByID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, []string{"Animation", "Musical"}, stored.GenreNames())

	musical, err := repo.Genre.FindByName(ctx, "Musical")
	require.NoError(t, err)
	assert.Equal(t, 15, musical.ID)

	err = repo.Movie.Create(ctx, entity.NewMovie("Duplicate", 2016, 3))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMemoryGenre(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	genres, err := repo.Genre.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 14)
	assert.Equal(t, "Action", genres[0].Name)
	assert.Equal(t, 4, genres[0].NumberOfMovies())
	assert.Equal(t, "Romance", genres[13].Name)

	err = repo.Genre.Create(ctx, entity.NewGenre("Action"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	genre, err := repo.Genre.FindByName(ctx, "Western")
	require.NoError(t, err)
	assert.Nil(t, genre)
}

func TestMemoryReview_Create(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	movie, err := repo.Movie.FindByID(ctx, 3)
	require.NoError(t, err)

	ts := time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC)
	review := entity.NewReview(movie, "Scary and clever", entity.NewUser("THORKE", ""), ts)
	require.NoError(t, repo.Review.Create(ctx, review))
	assert.Equal(t, 3, review.ID)

	thorke, err := repo.User.FindByUsername(ctx, "thorke")
	require.NoError(t, err)
	assert.Equal(t, thorke.ID, review.User.ID)
	assert.Len(t, thorke.Reviews, 2)
	assert.Contains(t, movie.Reviews, review)

	reloaded, err := repo.Movie.FindByID(ctx, 3)
	require.NoError(t, err)
	require.Len(t, reloaded.Reviews, 1)
	assert.Equal(t, "Scary and clever", reloaded.Reviews[0].Text)

	reviews, err := repo.Review.FindByUsername(ctx, "thorke")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Scary and clever", reviews[0].Text)

	all, err := repo.Review.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryReview_RequiresUserAndMovie(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	movie, err := repo.Movie.FindByID(ctx, 1)
	require.NoError(t, err)

	err = repo.Review.Create(ctx, entity.NewReview(movie, "LOL", nil, time.Now()))
	assert.ErrorIs(t, err, apperrors.ErrRepository)

	err = repo.Review.Create(ctx, entity.NewReview(nil, "LOL", entity.NewUser("thorke", ""), time.Now()))
	assert.ErrorIs(t, err, apperrors.ErrRepository)

	err = repo.Review.Create(ctx, entity.NewReview(movie, "LOL", entity.NewUser("ghost", ""), time.Now()))
	assert.ErrorIs(t, err, apperrors.ErrRepository)

	err = repo.Review.Create(ctx, entity.NewReview(entity.NewMovie("Unknown", 2000, 99), "LOL", entity.NewUser("thorke", ""), time.Now()))
	assert.ErrorIs(t, err, apperrors.ErrRepository)
}

func TestMemoryReview_FindByMovieID(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	reviews, err := repo.Review.FindByMovieID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "I love this movie", reviews[0].Text)
	assert.Equal(t, "Master piece!", reviews[1].Text)

	reviews, err = repo.Review.FindByMovieID(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestMemoryMovie_ReadsAreSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	before, err := repo.Movie.FindByID(ctx, 1)
	require.NoError(t, err)

	user, err := repo.User.FindByUsername(ctx, "thorke")
	require.NoError(t, err)
	require.NoError(t, repo.Review.Create(ctx, entity.NewReview(before, "Still great", user, time.Now())))

	after, err := repo.Movie.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, after.Reviews, 3)

	// the caller's copy is linked but a fresh read never aliases it
	assert.NotSame(t, before, after)
	after.Reviews = nil
	again, err := repo.Movie.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, again.Reviews, 3)
}

// Run with -race.
func TestMemoryReview_ConcurrentCreateAndRead(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepository(t)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			movie, err := repo.Movie.FindByID(ctx, 1)
			assert.NoError(t, err)
			assert.NoError(t, repo.Review.Create(ctx, entity.NewReview(movie, "Again!", entity.NewUser("fmercury", ""), time.Now())))
		}()
		go func() {
			defer wg.Done()
			movie, err := repo.Movie.FindByID(ctx, 1)
			if assert.NoError(t, err) {
				for _, rv := range movie.Reviews {
					_ = rv.User.Username + rv.Text
				}
			}
			user, err := repo.User.FindByUsername(ctx, "fmercury")
			if assert.NoError(t, err) {
				_ = len(user.Reviews)
			}
			_, err = repo.Genre.FindAll(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	reviews, err := repo.Review.FindByMovieID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, reviews, 22)
}
