package response

import (
	"time"

	"movie-catalogue/internal/data/entity"
)

type ReviewResponse struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	Username   string    `json:"username"`
	MovieID    int       `json:"movie_id"`
	MovieTitle string    `json:"movie_title,omitempty"`
	Text       string    `json:"review"`
	Timestamp  time.Time `json:"timestamp"`
}

// Helper converter
func ReviewToResponse(review *entity.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        review.ID,
		Text:      review.Text,
		Timestamp: review.Timestamp,
	}
	if review.User != nil {
		resp.UserID = review.User.ID
		resp.Username = review.User.Username
	}
	if review.Movie != nil {
		resp.MovieID = review.Movie.ID
		resp.MovieTitle = review.Movie.Title
	}
	return resp
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	resp := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		resp[i] = ReviewToResponse(r)
	}
	return resp
}
