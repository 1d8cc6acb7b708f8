package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug maps display text to a URL-safe token. Only ASCII spaces become
// hyphens; every other character outside [a-z0-9-] is dropped.
func GenerateSlug(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, " ", "-")
	text = slugInvalidChars.ReplaceAllString(text, "")
	text = slugHyphenRuns.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}
