package mediafile

import (
	"regexp"
	"sort"
	"strings"
)

// Cleaning patterns for series-name extraction, applied in order. Episode
// and season markers go first so that a quality tag glued to them is not
// left stranded mid-string.
var (
	markerRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bS\d{1,2}\s*E\d{1,3}\b`),        // S01E02
		regexp.MustCompile(`(?i)\bE\d{2,3}\b`),                   // E05
		regexp.MustCompile(`(?i)\bPart\s*\d{1,2}\b`),             // Part 2
		regexp.MustCompile(`(?i)\bSeason\s*\d{1,2}\b`),           // Season 2
		regexp.MustCompile(`(?i)\bEpisode\s*\d{1,3}(\.\d)?[ab]?\b`), // Episode 6.5a
		regexp.MustCompile(`(?i)\bEp\.?\s*\d{1,3}\b`),            // Ep 12
	}

	bracketEpisodeRegex = regexp.MustCompile(`\[\d{1,3}\]`)
	trailingDashNumRegex = regexp.MustCompile(`(-\s*\d{1,3}\s*)+$`)
	trailingNumberRegex  = regexp.MustCompile(`[\s._-]\d{1,3}\s*$`)

	qualityTagRegex = regexp.MustCompile(`(?i)\[[^\]]*(?:\d{3,4}p|HD|HEVC|x26[45]|BD|BluRay|WEB|10.?bit|FLAC|AAC)[^\]]*\]`)
	bareQualityRegex = regexp.MustCompile(`(?i)\b(?:\d{3,4}p|2160p|4K|UHD|HDTV|WEB-?DL|BDRip|BluRay|x26[45]|HEVC)\b`)

	trailingYearRegex  = regexp.MustCompile(`\((?:19|20)\d{2}\)\s*$`)
	parentheticalRegex = regexp.MustCompile(`\([^)]*\)`)
	bracketGroupRegex  = regexp.MustCompile(`\[[^\]]*\]`)

	pureNumberRegex = regexp.MustCompile(`^\d{1,3}$`)
)

// CleanName strips episode markers, quality tags, and separator noise
// from a single filename or folder name, leaving a human-readable title.
func CleanName(name string) string {
	s := StripExt(name)

	for _, re := range markerRegexes {
		s = re.ReplaceAllString(s, " ")
	}
	s = bracketEpisodeRegex.ReplaceAllString(s, " ")
	s = qualityTagRegex.ReplaceAllString(s, " ")
	s = bareQualityRegex.ReplaceAllString(s, " ")
	s = trailingYearRegex.ReplaceAllString(s, " ")
	s = parentheticalRegex.ReplaceAllString(s, " ")
	s = bracketGroupRegex.ReplaceAllString(s, " ")

	s = strings.TrimSpace(s)
	s = trailingDashNumRegex.ReplaceAllString(s, " ")
	s = trailingNumberRegex.ReplaceAllString(s, " ")

	s = strings.ReplaceAll(s, ".", " ")
	s = strings.ReplaceAll(s, "_", " ")
	s = collapseSpaces(s)
	return strings.Trim(s, "-— ")
}

// SeriesName derives a clean series title from the filenames of sibling
// episodes. A single file yields its own cleaned name; siblings yield the
// longest shared naming prefix, with a word-level fallback for names that
// diverge early.
func SeriesName(filenames []string) string {
	if len(filenames) == 0 {
		return ""
	}

	cleaned := make([]string, 0, len(filenames))
	for _, f := range filenames {
		cleaned = append(cleaned, CleanName(f))
	}

	if len(cleaned) == 1 {
		return finalizeName(cleaned[0])
	}

	sort.Slice(cleaned, func(i, j int) bool { return len(cleaned[i]) < len(cleaned[j]) })

	name := commonPrefix(cleaned)
	name = strings.Trim(name, " -._")
	if len(name) < 3 {
		// Early divergence: compare word by word against the shortest
		// name. Numeric words stay in; a series can be called "86".
		name = commonWordPrefix(cleaned)
	}
	if len(name) < 2 {
		name = cleaned[0]
	}
	return finalizeName(name)
}

// finalizeName trims trailing dashes and numbers, but preserves a short
// purely numeric result, which is plausibly the real title.
func finalizeName(name string) string {
	name = collapseSpaces(name)
	if pureNumberRegex.MatchString(name) {
		return name
	}
	name = trailingDashNumRegex.ReplaceAllString(name, "")
	name = trailingNumberRegex.ReplaceAllString(name, "")
	return strings.Trim(collapseSpaces(name), "- ")
}

// commonPrefix returns the longest common character prefix of the given
// names, which must be sorted shortest first.
func commonPrefix(names []string) string {
	prefix := names[0]
	for _, n := range names[1:] {
		for !strings.HasPrefix(n, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}

// commonWordPrefix compares names word by word, using the shortest name
// as the reference, and returns the words shared by all of them.
func commonWordPrefix(names []string) string {
	ref := strings.Fields(names[0])
	var shared []string

	for i, word := range ref {
		ok := true
		for _, n := range names[1:] {
			fields := strings.Fields(n)
			if i >= len(fields) || !strings.EqualFold(fields[i], word) {
				ok = false
				break
			}
		}
		if !ok {
			break
		}
		shared = append(shared, word)
	}

	return strings.Join(shared, " ")
}
