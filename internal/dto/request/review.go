package request

type CreateReviewRequest struct {
	MovieID int    `json:"movie_id" validate:"required,min=1"`
	Text    string `json:"review" validate:"required,min=4,max=1024"`
}
