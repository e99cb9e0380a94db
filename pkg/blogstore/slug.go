package blogstore

import (
	"regexp"
	"strings"
)

var (
	slugSeparators = regexp.MustCompile(`[\s_]+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL-safe identifier from a post title: lowercase,
// whitespace and underscores become hyphens, everything outside [a-z0-9-]
// is dropped, hyphen runs collapse.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugSeparators.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
