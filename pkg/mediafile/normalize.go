package mediafile

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// seasonSuffixRegex matches a "(Season N)" style suffix appended to a
// stored display title.
var seasonSuffixRegex = regexp.MustCompile(`(?i)\(\s*Season\s*\d+\s*\)\s*$`)

// NormalizeTitle prepares a title for comparison: the "(Season N)" suffix
// is dropped, accents and punctuation are removed, whitespace is
// collapsed, and the result is lower-cased.
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = seasonSuffixRegex.ReplaceAllString(s, "")
	s = removeAccents(s)

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
