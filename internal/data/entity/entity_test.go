package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_NormalizesUsername(t *testing.T) {
	user := NewUser("  Andrew ", "aaa111")

	assert.Equal(t, "andrew", user.Username)
	assert.True(t, user.Equal(NewUser("ANDREW", "other")))
	assert.False(t, user.Equal(NewUser("cindy", "aaa111")))
}

func TestNewMovie(t *testing.T) {
	movie := NewMovie("  Moana ", 2016, 7)
	assert.Equal(t, "Moana", movie.Title)
	assert.Equal(t, 2016, movie.ReleaseYear)
	assert.Equal(t, 7, movie.ID)

	old := NewMovie("Too Early", 1899, 0)
	assert.Zero(t, old.ReleaseYear)
}

func TestAddReview_LinksBothSides(t *testing.T) {
	user := NewUser("thorke", "hash")
	movie := NewMovie("Split", 2016, 3)
	ts := time.Date(2020, 2, 28, 14, 31, 26, 0, time.UTC)

	review, err := AddReview("Master piece!", user, movie, ts)
	require.NoError(t, err)

	assert.Same(t, user, review.User)
	assert.Same(t, movie, review.Movie)
	assert.Equal(t, ts, review.Timestamp)
	assert.Contains(t, user.Reviews, review)
	assert.Contains(t, movie.Reviews, review)
}

func TestAddReview_DefaultsTimestamp(t *testing.T) {
	before := time.Now()
	review, err := AddReview("ok", NewUser("a", "b"), NewMovie("m", 2000, 1), time.Time{})
	require.NoError(t, err)
	assert.False(t, review.Timestamp.Before(before))
}

func TestAddReview_RequiresUserAndMovie(t *testing.T) {
	_, err := AddReview("LOL", nil, NewMovie("Sing", 2016, 4), time.Now())
	assert.ErrorIs(t, err, ErrAssociation)

	_, err = AddReview("LOL", NewUser("a", "b"), nil, time.Now())
	assert.ErrorIs(t, err, ErrAssociation)
}

func TestMakeGenreAssociation(t *testing.T) {
	movie := NewMovie("Moana", 2016, 1)
	genre := NewGenre("Animation")

	require.NoError(t, MakeGenreAssociation(movie, genre))

	assert.True(t, movie.HasGenre("Animation"))
	assert.True(t, genre.IsAppliedTo(movie))
	assert.Equal(t, 1, genre.NumberOfMovies())
	assert.Equal(t, []string{"Animation"}, movie.GenreNames())

	err := MakeGenreAssociation(movie, genre)
	assert.ErrorIs(t, err, ErrAssociation)
	assert.Equal(t, 1, genre.NumberOfMovies())
}

func TestMovie_GenreString(t *testing.T) {
	movie := NewMovie("Guardians of the Galaxy", 2014, 1)
	for _, name := range []string{"Action", "Adventure", "Sci-Fi"} {
		require.NoError(t, MakeGenreAssociation(movie, NewGenre(name)))
	}
	assert.Equal(t, "Action,Adventure,Sci-Fi", movie.GenreString())
}

func TestParseActors(t *testing.T) {
	actors := ParseActors("Chris Pratt, Vin Diesel,Bradley Cooper, ,Zoe Saldana")
	assert.Equal(t, []string{"Chris Pratt", "Vin Diesel", "Bradley Cooper", "Zoe Saldana"}, actors)

	movie := &Movie{Actors: actors}
	assert.True(t, movie.HasActor("vin diesel"))
	assert.False(t, movie.HasActor("Vin"))
	assert.Equal(t, "Chris Pratt, Vin Diesel, Bradley Cooper, Zoe Saldana", movie.ActorString())
	assert.Empty(t, ParseActors(""))
}
