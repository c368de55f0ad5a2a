// Package slug normalizes template names and keys into stable lookup slugs.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	invalidPattern = regexp.MustCompile(`[^a-z0-9 _-]`)
	dashPattern    = regexp.MustCompile(`[\s-]+`)

	separators = strings.NewReplacer(".", "-", "/", "-", "\t", " ", "\n", " ")
)

// Make returns the slug for s: tags stripped, accents removed, lowercased,
// whitespace and dots turned into single dashes, and anything outside [a-z0-9_-] dropped.
// Make is idempotent.
func Make(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = removeAccents(s)
	s = strings.ToLower(s)
	s = separators.Replace(s)
	s = invalidPattern.ReplaceAllString(s, "")
	s = dashPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
