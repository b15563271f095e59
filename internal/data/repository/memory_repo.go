package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"movie-catalogue/internal/data/entity"
	"movie-catalogue/internal/data/seed"
	"movie-catalogue/pkg/apperrors"

	"go.uber.org/zap"
)

// memoryStore keeps the linked entity graph in process. Readers get
// snapshots copied under the lock and writers store their own copies, so no
// stored slice is shared outside the mutex.
type memoryStore struct {
	mu      sync.RWMutex
	movies  map[int]*entity.Movie
	genres  []*entity.Genre
	users   []*entity.User
	reviews []*entity.Review
}

// NewMemoryRepository builds empty in-process repositories. Use
// Seeder.Populate to load a dataset.
func NewMemoryRepository(log *zap.Logger) *Repository {
	s := &memoryStore{movies: make(map[int]*entity.Movie)}
	log = log.With(zap.String("repository", "memory"))
	return &Repository{
		User:   &memoryUserRepository{store: s},
		Movie:  &memoryMovieRepository{store: s},
		Genre:  &memoryGenreRepository{store: s},
		Review: &memoryReviewRepository{store: s},
		Seeder: &memorySeeder{store: s, log: log},
	}
}

// The snapshot helpers must be called with the lock held. Entity pointers
// inside a snapshot refer to stored entities. Only fields that never change
// after insert (ID, Title, Username, Text, ...) may be read through them.

func snapshotMovie(m *entity.Movie) *entity.Movie {
	if m == nil {
		return nil
	}
	c := *m
	c.Actors = slices.Clone(m.Actors)
	c.Genres = make([]*entity.Genre, len(m.Genres))
	for i, g := range m.Genres {
		c.Genres[i] = snapshotGenre(g)
	}
	c.Reviews = snapshotReviews(m.Reviews)
	return &c
}

func snapshotMovies(movies []*entity.Movie) []*entity.Movie {
	out := make([]*entity.Movie, len(movies))
	for i, m := range movies {
		out[i] = snapshotMovie(m)
	}
	return out
}

func snapshotGenre(g *entity.Genre) *entity.Genre {
	if g == nil {
		return nil
	}
	c := *g
	c.Movies = slices.Clone(g.Movies)
	return &c
}

func snapshotUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Reviews = snapshotReviews(u.Reviews)
	return &c
}

func snapshotReviews(reviews []*entity.Review) []*entity.Review {
	out := make([]*entity.Review, len(reviews))
	for i, rv := range reviews {
		c := *rv
		out[i] = &c
	}
	return out
}

// sortedMovies must be called with the lock held.
func (s *memoryStore) sortedMovies() []*entity.Movie {
	movies := make([]*entity.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		movies = append(movies, m)
	}
	slices.SortFunc(movies, func(a, b *entity.Movie) int { return a.ID - b.ID })
	return movies
}

func (s *memoryStore) userByName(username string) *entity.User {
	username = strings.ToLower(strings.TrimSpace(username))
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (s *memoryStore) genreByName(name string) *entity.Genre {
	name = strings.TrimSpace(name)
	for _, g := range s.genres {
		if g.Name == name {
			return g
		}
	}
	return nil
}

type memorySeeder struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memorySeeder) IsEmpty(_ context.Context) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.movies) == 0, nil
}

// Populate replaces the store contents with the linked dataset.
func (r *memorySeeder) Populate(_ context.Context, ds *seed.Dataset) error {
	graph, err := ds.Build()
	if err != nil {
		return fmt.Errorf("build dataset graph: %w", err)
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.movies = make(map[int]*entity.Movie, len(graph.Movies))
	for _, m := range graph.Movies {
		s.movies[m.ID] = m
	}
	s.genres = graph.Genres
	s.users = graph.Users
	s.reviews = graph.Reviews

	r.log.Info("Dataset loaded",
		zap.Int("movies", len(graph.Movies)),
		zap.Int("genres", len(graph.Genres)),
		zap.Int("users", len(graph.Users)),
		zap.Int("reviews", len(graph.Reviews)),
	)
	return nil
}

type memoryUserRepository struct {
	store *memoryStore
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if s.userByName(user.Username) != nil {
		return fmt.Errorf("user %s: %w", user.Username, apperrors.ErrConflict)
	}

	user.ID = 1
	for _, u := range s.users {
		user.ID = max(user.ID, u.ID+1)
	}
	stored := *user
	stored.Reviews = nil
	s.users = append(s.users, &stored)
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id int) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.ID == id {
			return snapshotUser(u), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return snapshotUser(r.store.userByName(username)), nil
}

func (r *memoryUserRepository) CountAll(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.users)), nil
}

type memoryMovieRepository struct {
	store *memoryStore
}

func (r *memoryMovieRepository) Create(_ context.Context, movie *entity.Movie) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if movie.ID == 0 {
		movie.ID = 1
		for id := range s.movies {
			movie.ID = max(movie.ID, id+1)
		}
	}
	if _, ok := s.movies[movie.ID]; ok {
		return fmt.Errorf("movie %d: %w", movie.ID, apperrors.ErrConflict)
	}

	stored := &entity.Movie{
		ID:          movie.ID,
		Title:       movie.Title,
		ReleaseYear: movie.ReleaseYear,
		Description: movie.Description,
		Director:    movie.Director,
		Actors:      slices.Clone(movie.Actors),
	}
	for _, g := range movie.Genres {
		genre := s.genreByName(g.Name)
		if genre == nil {
			genre = entity.NewGenre(g.Name)
			genre.ID = len(s.genres) + 1
			s.genres = append(s.genres, genre)
		}
		g.ID = genre.ID
		if stored.HasGenre(genre.Name) {
			continue
		}
		if err := entity.MakeGenreAssociation(stored, genre); err != nil {
			return err
		}
	}

	s.movies[stored.ID] = stored
	return nil
}

func (r *memoryMovieRepository) FindByID(_ context.Context, id int) (*entity.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return snapshotMovie(r.store.movies[id]), nil
}

func (r *memoryMovieRepository) FindAll(_ context.Context) ([]*entity.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return snapshotMovies(r.store.sortedMovies()), nil
}

func (r *memoryMovieRepository) FindByIDs(_ context.Context, ids []int) ([]*entity.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	movies := []*entity.Movie{}
	for _, m := range r.store.sortedMovies() {
		if slices.Contains(ids, m.ID) {
			movies = append(movies, snapshotMovie(m))
		}
	}
	return movies, nil
}

func (r *memoryMovieRepository) FindByReleaseYear(_ context.Context, year *int) ([]*entity.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	movies := []*entity.Movie{}
	for _, m := range r.store.sortedMovies() {
		if year == nil || m.ReleaseYear == *year {
			movies = append(movies, snapshotMovie(m))
		}
	}
	return movies, nil
}

func (r *memoryMovieRepository) findIDs(match func(*entity.Movie) bool) []int {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := []int{}
	for _, m := range r.store.sortedMovies() {
		if match(m) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func (r *memoryMovieRepository) FindIDsByGenre(_ context.Context, genre string) ([]int, error) {
	return r.findIDs(func(m *entity.Movie) bool { return m.HasGenre(genre) }), nil
}

func (r *memoryMovieRepository) FindIDsByActor(_ context.Context, actor string) ([]int, error) {
	return r.findIDs(func(m *entity.Movie) bool { return m.HasActor(actor) }), nil
}

func (r *memoryMovieRepository) FindIDsByTitle(_ context.Context, title string) ([]int, error) {
	title = strings.ToLower(strings.TrimSpace(title))
	return r.findIDs(func(m *entity.Movie) bool {
		return strings.Contains(strings.ToLower(m.Title), title)
	}), nil
}

func (r *memoryMovieRepository) CountAll(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.movies)), nil
}

func (r *memoryMovieRepository) FindFirst(_ context.Context) (*entity.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	movies := r.store.sortedMovies()
	if len(movies) == 0 {
		return nil, nil
	}
	return snapshotMovie(movies[0]), nil
}

func (r *memoryMovieRepository) FindLast(_ context.Context) (*entity.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	movies := r.store.sortedMovies()
	if len(movies) == 0 {
		return nil, nil
	}
	return snapshotMovie(movies[len(movies)-1]), nil
}

func (r *memoryMovieRepository) FindAdjacentIDs(_ context.Context, id int) (int, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var prev, next int
	for _, m := range r.store.sortedMovies() {
		if m.ID < id {
			prev = m.ID
		}
		if m.ID > id {
			next = m.ID
			break
		}
	}
	return prev, next, nil
}

func (r *memoryMovieRepository) FindReleaseYears(_ context.Context) ([]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	years := []int{}
	for _, m := range r.store.movies {
		if m.ReleaseYear > 0 && !slices.Contains(years, m.ReleaseYear) {
			years = append(years, m.ReleaseYear)
		}
	}
	slices.Sort(years)
	return years, nil
}

func (r *memoryMovieRepository) FindActorNames(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	names := []string{}
	for _, m := range r.store.movies {
		names = append(names, m.Actors...)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

type memoryGenreRepository struct {
	store *memoryStore
}

func (r *memoryGenreRepository) Create(_ context.Context, genre *entity.Genre) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	genre.Name = strings.TrimSpace(genre.Name)
	if s.genreByName(genre.Name) != nil {
		return fmt.Errorf("genre %s: %w", genre.Name, apperrors.ErrConflict)
	}
	genre.ID = len(s.genres) + 1
	stored := *genre
	stored.Movies = slices.Clone(genre.Movies)
	s.genres = append(s.genres, &stored)
	return nil
}

func (r *memoryGenreRepository) FindAll(_ context.Context) ([]*entity.Genre, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	genres := make([]*entity.Genre, len(r.store.genres))
	for i, g := range r.store.genres {
		genres[i] = snapshotGenre(g)
	}
	return genres, nil
}

func (r *memoryGenreRepository) FindByName(_ context.Context, name string) (*entity.Genre, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return snapshotGenre(r.store.genreByName(name)), nil
}

type memoryReviewRepository struct {
	store *memoryStore
}

// Create stores a copy of review linked to the stored author and movie, then
// links review into the caller's own user and movie.
func (r *memoryReviewRepository) Create(_ context.Context, review *entity.Review) error {
	if review == nil || review.User == nil {
		return fmt.Errorf("review has no author: %w", apperrors.ErrRepository)
	}
	if review.Movie == nil {
		return fmt.Errorf("review has no movie: %w", apperrors.ErrRepository)
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.userByName(review.User.Username)
	if user == nil {
		return fmt.Errorf("review author %s does not exist: %w", review.User.Username, apperrors.ErrRepository)
	}
	movie, ok := s.movies[review.Movie.ID]
	if !ok {
		return fmt.Errorf("review movie %d does not exist: %w", review.Movie.ID, apperrors.ErrRepository)
	}
	if review.Timestamp.IsZero() {
		review.Timestamp = time.Now()
	}

	review.ID = 1
	for _, rv := range s.reviews {
		review.ID = max(review.ID, rv.ID+1)
	}

	stored := *review
	stored.User = user
	stored.Movie = movie
	user.AddReview(&stored)
	movie.AddReview(&stored)
	s.reviews = append(s.reviews, &stored)

	if review.User.ID == 0 {
		review.User.ID = user.ID
	}
	review.User.AddReview(review)
	review.Movie.AddReview(review)
	return nil
}

func (r *memoryReviewRepository) FindAll(_ context.Context) ([]*entity.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reviews := snapshotReviews(r.store.reviews)
	slices.SortFunc(reviews, func(a, b *entity.Review) int { return a.ID - b.ID })
	return reviews, nil
}

func (r *memoryReviewRepository) FindByMovieID(_ context.Context, movieID int) ([]*entity.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reviews := []*entity.Review{}
	for _, rv := range r.store.reviews {
		if rv.Movie.ID == movieID {
			reviews = append(reviews, rv)
		}
	}
	reviews = snapshotReviews(reviews)
	slices.SortFunc(reviews, func(a, b *entity.Review) int {
		return cmp.Or(a.Timestamp.Compare(b.Timestamp), a.ID-b.ID)
	})
	return reviews, nil
}

func (r *memoryReviewRepository) FindByUsername(_ context.Context, username string) ([]*entity.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	username = strings.ToLower(strings.TrimSpace(username))
	reviews := []*entity.Review{}
	for _, rv := range r.store.reviews {
		if rv.User.Username == username {
			reviews = append(reviews, rv)
		}
	}
	reviews = snapshotReviews(reviews)
	slices.SortFunc(reviews, func(a, b *entity.Review) int {
		return cmp.Or(b.Timestamp.Compare(a.Timestamp), b.ID-a.ID)
	})
	return reviews, nil
}
