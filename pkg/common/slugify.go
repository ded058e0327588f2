package common

import (
	"regexp"
	"strings"
)

var (
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugUnderscore = regexp.MustCompile(`_+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\-.]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify converts a title into a URL-safe identifier: lowercased, spaces and
// underscores collapsed to single hyphens, everything outside [a-z0-9-.]
// removed. It never fails; all-invalid input yields the empty string.
// Uniqueness is not checked here.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugUnderscore.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
