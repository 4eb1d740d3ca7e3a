package util

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate normalizes page/size and returns the row offset for them.
// Pages start at 1; sizes outside (0, MaxPageSize] fall back to DefaultPageSize.
func Calculate(page, size int) (p, s, offset int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size, (page - 1) * size
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
