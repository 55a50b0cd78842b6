package model

import (
	"strings"
)

// PrimaryPosition returns the first position of a slash delimited position list,
// "EDGE/LB" returns "EDGE". It returns "" when the player has no position.
func PrimaryPosition(pos string) string {
	first, _, _ := strings.Cut(pos, "/")
	return strings.TrimSpace(first)
}

// SplitPositions returns every non-empty position of a slash delimited position list.
func SplitPositions(pos string) []string {
	parts := strings.Split(pos, "/")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// ParsePosition cleans up a position typed by a user or scraped from a page so it
// can be used as the scope of a positional big board.
func ParsePosition(pos string) string {
	return strings.ToUpper(strings.TrimSpace(pos))
}
