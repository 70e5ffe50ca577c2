// Package mediafile parses video filenames and folder names to extract
// series titles, season/episode numbers, and stable identifiers.
package mediafile

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Number is an episode number. It is usually a whole number, but half
// episodes ("Episode 6.5" specials) are represented as true decimals so
// they sort correctly between their neighbours.
type Number float64

// IsWhole reports whether the episode number is a full integer episode.
// Fractional numbers denote specials and are excluded from canonical
// episode counts.
func (n Number) IsWhole() bool {
	return float64(n) == math.Trunc(float64(n))
}

func (n Number) String() string {
	if n.IsWhole() {
		return strconv.Itoa(int(n))
	}
	return strconv.FormatFloat(float64(n), 'f', 1, 64)
}

// extRegex matches a trailing dot-extension of 2 to 4 alphanumeric
// characters (".mkv", ".mp4", ".srt", ".webm").
var extRegex = regexp.MustCompile(`\.[A-Za-z0-9]{2,4}$`)

// StripExt removes a trailing file extension from name if one is present.
// Only short alphanumeric extensions are stripped, so titles ending in a
// dotted word ("Dr. Stone") survive.
func StripExt(name string) string {
	return extRegex.ReplaceAllString(name, "")
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// collapseSpaces normalizes all whitespace runs to a single space.
func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

func intPtr(v int) *int { return &v }
