package validation

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidSlug = errors.New("invalid slug. Use 3-60 lowercase characters (letters, numbers, hyphens)")

var slugRegex = regexp.MustCompile(`^[a-z0-9-]{3,60}$`)

// NormalizeSlug converts a course slug to lowercase and validates format.
// Valid slugs are 3-60 characters containing only lowercase letters,
// numbers, and hyphens.
func NormalizeSlug(value string) (string, error) {
	normalized := strings.TrimSpace(strings.ToLower(value))
	if !slugRegex.MatchString(normalized) {
		return "", ErrInvalidSlug
	}
	return normalized, nil
}
