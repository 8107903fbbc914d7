package util

import "strconv"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Limit parses a "limit" query value, falling back to DefaultLimit and
// capping at MaxLimit.
func Limit(s string) int {
	limit := ParseIntDefault(s, DefaultLimit)
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
