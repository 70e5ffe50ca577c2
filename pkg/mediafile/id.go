package mediafile

import (
	"fmt"
	"regexp"
	"strings"
)

const maxIDLength = 50

var (
	nonAlnumSpaceRegex = regexp.MustCompile(`[^a-z0-9 ]+`)
	nonAlnumRegex      = regexp.MustCompile(`[^a-z0-9]+`)
)

// ID derives the stable identifier used as the primary key for persisted
// metadata. It is a pure function of (series name, folder name, season,
// part), so repeated scans of an unchanged folder reuse fetched metadata.
// Part takes priority over season in the suffix.
func ID(seriesName, folderName string, season, part *int) string {
	var base string
	if len(strings.TrimSpace(seriesName)) >= 2 {
		base = strings.ToLower(seriesName)
		base = nonAlnumSpaceRegex.ReplaceAllString(base, "")
		base = strings.Join(strings.Fields(base), "_")
		if len(base) > maxIDLength {
			base = base[:maxIDLength]
		}
	} else {
		// Degenerate series name: fall back to the raw folder name.
		base = nonAlnumRegex.ReplaceAllString(strings.ToLower(folderName), "_")
	}

	switch {
	case part != nil:
		return fmt.Sprintf("%s_part%02d", base, *part)
	case season != nil:
		return fmt.Sprintf("%s_s%02d", base, *season)
	default:
		return base
	}
}
