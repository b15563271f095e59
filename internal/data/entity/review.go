package entity

import (
	"fmt"
	"strings"
	"time"
)

type Review struct {
	ID        int       `db:"id"`
	Text      string    `db:"review"`
	Timestamp time.Time `db:"timestamp"`

	User  *User  `db:"-"`
	Movie *Movie `db:"-"`
}

// NewReview builds an unlinked review. Use AddReview to attach it to its
// author and movie.
func NewReview(movie *Movie, text string, user *User, timestamp time.Time) *Review {
	return &Review{
		Text:      strings.TrimSpace(text),
		Timestamp: timestamp,
		User:      user,
		Movie:     movie,
	}
}

// AddReview creates a review and links it into user.Reviews and
// movie.Reviews. A zero timestamp means now.
func AddReview(text string, user *User, movie *Movie, timestamp time.Time) (*Review, error) {
	if user == nil {
		return nil, fmt.Errorf("review has no author: %w", ErrAssociation)
	}
	if movie == nil {
		return nil, fmt.Errorf("review has no movie: %w", ErrAssociation)
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	review := NewReview(movie, text, user, timestamp)
	user.AddReview(review)
	movie.AddReview(review)
	return review, nil
}
