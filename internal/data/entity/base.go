package entity

import (
	"errors"
	"strings"
)

// ErrAssociation is returned when two entities cannot be linked.
var ErrAssociation = errors.New("invalid entity association")

// MinReleaseYear is the earliest release year a movie may carry.
const MinReleaseYear = 1900

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
