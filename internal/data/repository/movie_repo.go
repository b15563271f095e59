package repository

import (
	"context"
	"fmt"
	"strings"

	"movie-catalogue/internal/data/entity"
	"movie-catalogue/pkg/apperrors"
	"movie-catalogue/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id int) (*entity.Movie, error)
	FindAll(ctx context.Context) ([]*entity.Movie, error)
	FindByIDs(ctx context.Context, ids []int) ([]*entity.Movie, error)
	FindByReleaseYear(ctx context.Context, year *int) ([]*entity.Movie, error)
	FindIDsByGenre(ctx context.Context, genre string) ([]int, error)
	FindIDsByActor(ctx context.Context, actor string) ([]int, error)
	FindIDsByTitle(ctx context.Context, title string) ([]int, error)
	CountAll(ctx context.Context) (int64, error)
	FindFirst(ctx context.Context) (*entity.Movie, error)
	FindLast(ctx context.Context) (*entity.Movie, error)

	// FindAdjacentIDs returns the nearest existing ids before and after id,
	// 0 when there is none.
	FindAdjacentIDs(ctx context.Context, id int) (prev, next int, err error)
	FindReleaseYears(ctx context.Context) ([]int, error)
	FindActorNames(ctx context.Context) ([]string, error)
}

const movieColumns = `m.id, m.title, m.release_year, COALESCE(m.description, ''),
	COALESCE(m.director, ''), COALESCE(m.actors, '')`

type movieRepository struct {
	db          database.PgxIface
	movieGenres *movieGenreRepository
	log         *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:          db,
		movieGenres: newMovieGenreRepository(db, log),
		log:         log.With(zap.String("repository", "movie")),
	}
}

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var (
		movie  entity.Movie
		actors string
	)
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.ReleaseYear,
		&movie.Description,
		&movie.Director,
		&actors,
	)
	if err != nil {
		return nil, err
	}
	movie.Actors = entity.ParseActors(actors)
	return &movie, nil
}

// Create inserts the movie together with its genre links in one
// transaction. A zero ID is replaced with MAX(id)+1; the movies table is
// locked against other writers for the rest of the transaction so
// concurrent creates do not pick the same id. Readers are not blocked.
func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create movie: %w", err)
	}
	defer tx.Rollback(ctx)

	if movie.ID == 0 {
		if _, err := tx.Exec(ctx, `LOCK TABLE movies IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("lock movies: %w", err)
		}
	}

	query := `
		INSERT INTO movies (id, title, release_year, genres, description, director, actors)
		VALUES (
			CASE WHEN $1 = 0 THEN (SELECT COALESCE(MAX(id), 0) + 1 FROM movies) ELSE $1 END,
			$2, $3, $4, $5, $6, $7
		)
		RETURNING id
	`

	err = tx.QueryRow(ctx, query,
		movie.ID,
		movie.Title,
		movie.ReleaseYear,
		movie.GenreString(),
		movie.Description,
		movie.Director,
		movie.ActorString(),
	).Scan(&movie.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("movie %d: %w", movie.ID, apperrors.ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("create movie %s: %w", movie.Title, err)
	}

	for _, g := range movie.Genres {
		id, err := r.movieGenres.Link(ctx, tx, movie.ID, g.Name)
		if err != nil {
			return err
		}
		g.ID = id
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create movie: %w", err)
	}

	return nil
}

// FindByID returns the movie with its genres and its reviews, each review
// linked to its author.
func (r *movieRepository) FindByID(ctx context.Context, id int) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.Int("movie_id", id),
		)
		return nil, fmt.Errorf("find movie by ID %d: %w", id, err)
	}

	if err := r.hydrate(ctx, []*entity.Movie{movie}); err != nil {
		return nil, err
	}

	return movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m ORDER BY m.id`
	return r.findMovies(ctx, "find all movies", query)
}

// FindByIDs skips ids that do not exist. Results are ordered by id.
func (r *movieRepository) FindByIDs(ctx context.Context, ids []int) ([]*entity.Movie, error) {
	if len(ids) == 0 {
		return []*entity.Movie{}, nil
	}
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.id = ANY($1) ORDER BY m.id`
	return r.findMovies(ctx, "find movies by IDs", query, ids)
}

// FindByReleaseYear returns every movie when year is nil.
func (r *movieRepository) FindByReleaseYear(ctx context.Context, year *int) ([]*entity.Movie, error) {
	if year == nil {
		return r.FindAll(ctx)
	}
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.release_year = $1 ORDER BY m.id`
	return r.findMovies(ctx, "find movies by release year", query, *year)
}

func (r *movieRepository) FindIDsByGenre(ctx context.Context, genre string) ([]int, error) {
	query := `
		SELECT mg.movie_id
		FROM movie_genres mg
		INNER JOIN genres g ON g.id = mg.genre_id
		WHERE g.genre_name = $1
		ORDER BY mg.movie_id
	`
	return r.findIDs(ctx, "find movie IDs by genre", query, strings.TrimSpace(genre))
}

// FindIDsByActor matches a whole actor name case-insensitively.
func (r *movieRepository) FindIDsByActor(ctx context.Context, actor string) ([]int, error) {
	query := `
		SELECT m.id
		FROM movies m
		WHERE EXISTS (
			SELECT 1 FROM unnest(string_to_array(m.actors, ',')) AS a(name)
			WHERE lower(trim(a.name)) = lower($1)
		)
		ORDER BY m.id
	`
	return r.findIDs(ctx, "find movie IDs by actor", query, strings.TrimSpace(actor))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindIDsByTitle matches a title substring case-insensitively.
func (r *movieRepository) FindIDsByTitle(ctx context.Context, title string) ([]int, error) {
	query := `SELECT m.id FROM movies m WHERE m.title ILIKE '%' || $1 || '%' ORDER BY m.id`
	return r.findIDs(ctx, "find movie IDs by title", query, likeEscaper.Replace(strings.TrimSpace(title)))
}

func (r *movieRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM movies`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Database error counting movies", zap.Error(err))
		return 0, fmt.Errorf("count all movies: %w", err)
	}

	return count, nil
}

func (r *movieRepository) FindFirst(ctx context.Context) (*entity.Movie, error) {
	return r.findOne(ctx, "find first movie", `SELECT `+movieColumns+` FROM movies m ORDER BY m.id ASC LIMIT 1`)
}

func (r *movieRepository) FindLast(ctx context.Context) (*entity.Movie, error) {
	return r.findOne(ctx, "find last movie", `SELECT `+movieColumns+` FROM movies m ORDER BY m.id DESC LIMIT 1`)
}

func (r *movieRepository) FindAdjacentIDs(ctx context.Context, id int) (int, int, error) {
	query := `
		SELECT COALESCE((SELECT MAX(id) FROM movies WHERE id < $1), 0),
		       COALESCE((SELECT MIN(id) FROM movies WHERE id > $1), 0)
	`

	var prev, next int
	if err := r.db.QueryRow(ctx, query, id).Scan(&prev, &next); err != nil {
		r.log.Error("Failed to find adjacent movie IDs",
			zap.Error(err),
			zap.Int("movie_id", id),
		)
		return 0, 0, fmt.Errorf("find adjacent movie IDs %d: %w", id, err)
	}

	return prev, next, nil
}

func (r *movieRepository) FindReleaseYears(ctx context.Context) ([]int, error) {
	query := `SELECT DISTINCT release_year FROM movies WHERE release_year > 0 ORDER BY release_year`
	return r.findIDs(ctx, "find release years", query)
}

func (r *movieRepository) FindActorNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT trim(a.name) AS actor
		FROM movies m, unnest(string_to_array(m.actors, ',')) AS a(name)
		WHERE trim(a.name) <> ''
		ORDER BY actor
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find actor names", zap.Error(err))
		return nil, fmt.Errorf("find actor names: %w", err)
	}
	defer rows.Close()

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		r.log.Error("Failed to scan actor names", zap.Error(err))
		return nil, fmt.Errorf("scan actor names: %w", err)
	}

	return names, nil
}

func (r *movieRepository) findOne(ctx context.Context, op, query string, args ...any) (*entity.Movie, error) {
	movie, err := scanMovie(r.db.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.hydrate(ctx, []*entity.Movie{movie}); err != nil {
		return nil, err
	}
	return movie, nil
}

func (r *movieRepository) findMovies(ctx context.Context, op, query string, args ...any) ([]*entity.Movie, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	movies := []*entity.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate movie rows: %w", err)
	}

	if err := r.hydrate(ctx, movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *movieRepository) findIDs(ctx context.Context, op, query string, args ...any) ([]int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		r.log.Error("Failed to scan id row", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ids == nil {
		ids = []int{}
	}

	return ids, nil
}

// hydrate links genres and reviews (with their authors) into movies.
func (r *movieRepository) hydrate(ctx context.Context, movies []*entity.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	ids := make([]int, len(movies))
	byID := make(map[int]*entity.Movie, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
		byID[m.ID] = m
	}

	genres, err := r.movieGenres.FindByMovieIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, m := range movies {
		for _, g := range genres[m.ID] {
			if err := entity.MakeGenreAssociation(m, g); err != nil {
				return err
			}
		}
	}

	query := `
		SELECT r.id, r.review, r.timestamp, r.movie_id, u.id, u.username, u.password
		FROM reviews r
		INNER JOIN users u ON u.id = r.user_id
		WHERE r.movie_id = ANY($1)
		ORDER BY r.timestamp, r.id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find reviews for movies", zap.Error(err))
		return fmt.Errorf("find reviews for movies: %w", err)
	}
	defer rows.Close()

	users := make(map[int]*entity.User)
	for rows.Next() {
		var (
			review  entity.Review
			movieID int
			user    entity.User
		)
		err := rows.Scan(
			&review.ID,
			&review.Text,
			&review.Timestamp,
			&movieID,
			&user.ID,
			&user.Username,
			&user.PasswordHash,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return fmt.Errorf("scan review row: %w", err)
		}

		author, ok := users[user.ID]
		if !ok {
			author = &user
			users[user.ID] = author
		}
		linked, err := entity.AddReview(review.Text, author, byID[movieID], review.Timestamp)
		if err != nil {
			return err
		}
		linked.ID = review.ID
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return fmt.Errorf("iterate review rows: %w", err)
	}

	return nil
}
