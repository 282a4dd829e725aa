package category

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Slugify lower-cases name and joins its whitespace-separated words with
// single hyphens, so leading and trailing whitespace disappear.
// Slugify(Slugify(s)) == Slugify(s).
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Humanize turns a remote category slug into a display name:
// "home-decoration" -> "Home decoration".
func Humanize(slug string) string {
	s := strings.ReplaceAll(strings.TrimSpace(slug), "-", " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
