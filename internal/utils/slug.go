package utils

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u",
	"ñ", "n", "Ñ", "n",
	"ü", "u", "Ü", "u",
)

// Slugify lowercases the input, folds the Spanish accented letters to ASCII
// and collapses everything outside [a-z0-9] into single hyphens.
// Slugify(Slugify(s)) == Slugify(s).
func Slugify(input string) string {
	s := strings.ToLower(input)
	s = accentReplacer.Replace(s)
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SanitizeSlug turns a raw path parameter into a lookup token.
func SanitizeSlug(raw string) string {
	return Slugify(strings.TrimSpace(raw))
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
