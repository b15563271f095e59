package utils

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.New().String()
}

// RandomSample returns up to n distinct indexes in [0, size).
func RandomSample(size, n int) []int {
	if n > size {
		n = size
	}
	if n <= 0 {
		return nil
	}
	return rand.Perm(size)[:n]
}
