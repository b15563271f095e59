package entity

// MovieGenre is a row of the movie_genres bridge table.
type MovieGenre struct {
	ID      int `db:"id"`
	MovieID int `db:"movie_id"`
	GenreID int `db:"genre_id"`
}
