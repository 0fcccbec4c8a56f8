package service

import (
	"regexp"
	"strings"
)

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a document id from its title: lowercase, runs of
// non-alphanumerics collapsed to "-", leading/trailing "-" trimmed. The
// id is immutable once created; retitling a document does not move it.
func Slugify(title string) string {
	slug := slugNonAlnum.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
