package utils

import (
	"strconv"
	"strings"
)

// CountPages parses an article pages string of the form "start-end" and
// returns the inclusive page count. Malformed or missing values count as 0.
func CountPages(pages string) int {
	trimmed := strings.TrimSpace(pages)
	if trimmed == "" {
		return 0
	}

	parts := strings.SplitN(trimmed, "-", 2)
	if len(parts) != 2 {
		return 0
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	if end < start || start <= 0 {
		return 0
	}

	return end - start + 1
}
