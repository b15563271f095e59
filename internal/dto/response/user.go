package response

import "movie-catalogue/internal/data/entity"

type UserResponse struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	ReviewCount int    `json:"review_count"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		ReviewCount: len(user.Reviews),
	}
}
