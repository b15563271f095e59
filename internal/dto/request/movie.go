package request

import "strings"

// MovieFilter selects the movies of a listing. At most one criterion is
// applied, in the order Year, Genre, Actor, Title.
type MovieFilter struct {
	Year  *int   `json:"year,omitempty" validate:"omitempty,min=1900,max=2100"`
	Genre string `json:"genre,omitempty" validate:"omitempty,max=64"`
	Actor string `json:"actor,omitempty" validate:"omitempty,max=255"`
	Title string `json:"title,omitempty" validate:"omitempty,max=255"`
}

func (f MovieFilter) IsEmpty() bool {
	return f.Year == nil &&
		strings.TrimSpace(f.Genre) == "" &&
		strings.TrimSpace(f.Actor) == "" &&
		strings.TrimSpace(f.Title) == ""
}
