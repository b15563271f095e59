package entity

import "strings"

type User struct {
	ID           int    `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password"`

	Reviews []*Review `db:"-"`
}

// NewUser normalizes the username to lower case without surrounding spaces.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     normalizeName(username),
		PasswordHash: strings.TrimSpace(passwordHash),
	}
}

func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.Username == other.Username
}

func (u *User) AddReview(review *Review) {
	for _, r := range u.Reviews {
		if r == review {
			return
		}
	}
	u.Reviews = append(u.Reviews, review)
}
