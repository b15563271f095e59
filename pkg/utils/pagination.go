package utils

import "math"

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// CalculateOffset saturates at math.MaxInt instead of overflowing.
func CalculateOffset(page, perPage int) int {
	if page < 1 || perPage <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// Paginate returns the page-th slice of items, empty past the end.
func Paginate[T any](items []T, page, perPage int) []T {
	if perPage <= 0 {
		return nil
	}
	if page > CalculateTotalPages(int64(len(items)), perPage) {
		return []T{}
	}
	offset := CalculateOffset(page, perPage)
	end := min(offset+perPage, len(items))
	return items[offset:end]
}
