package mediafile

import (
	"regexp"
	"strconv"
)

// Tokenizer patterns, in strict precedence order. The first match wins;
// everything below the SxxExx form runs against the extension-stripped
// name, never the raw filename, so ".mp4" is never misread as episode 4.
var (
	// seasonEpisodeRegex matches the combined form: S01E02, s1e2.
	seasonEpisodeRegex = regexp.MustCompile(`(?i)\bS(\d{1,2})\s*E(\d{1,3})\b`)

	// decimalEpisodeRegex matches half episodes: "Episode 6.5".
	decimalEpisodeRegex = regexp.MustCompile(`(?i)\bEpisode\s*(\d{1,3})\.(\d)\b`)

	// episodeFallbacks are tried in order against the stripped filename.
	episodeFallbacks = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bEpisode\s*(\d{1,3})\b`),          // Episode 12
		regexp.MustCompile(`(?i)\bEp\.?\s*(\d{1,3})\b`),            // Ep 12, Ep.12
		regexp.MustCompile(`(?i)\bE(\d{2,3})\b`),                   // E05, E112
		regexp.MustCompile(`-\s*(\d{1,3})\s*$`),                    // Show - 07
		regexp.MustCompile(`\[(\d{1,3})\]`),                        // [07]
		regexp.MustCompile(`(?:^|[\s._(-])(\d{1,3})[\s.)]*$`),      // trailing lone number
	}

	digitRunRegex = regexp.MustCompile(`\d+`)

	seasonFolderRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bSeason\s*(\d{1,2})\b`),
		regexp.MustCompile(`(?i)\bS(\d{1,2})\b`),
	}

	partFolderRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bPart\s*(\d{1,2})\b`),
		regexp.MustCompile(`(?i)\bP(\d{1,2})\b`),
	}
)

// Tokenize extracts the season and episode number from a single video
// filename. Season is nil unless the name carries an explicit SxxExx
// marker; callers resolve a nil season from folder context.
func Tokenize(filename string) (season *int, episode Number) {
	stripped := StripExt(filename)

	if m := seasonEpisodeRegex.FindStringSubmatch(stripped); m != nil {
		s, _ := strconv.Atoi(m[1])
		e, _ := strconv.Atoi(m[2])
		return intPtr(s), Number(e)
	}

	if m := decimalEpisodeRegex.FindStringSubmatch(stripped); m != nil {
		whole, _ := strconv.Atoi(m[1])
		frac, _ := strconv.Atoi(m[2])
		return nil, Number(float64(whole) + float64(frac)/10)
	}

	for _, re := range episodeFallbacks {
		if m := re.FindStringSubmatch(stripped); m != nil {
			e, _ := strconv.Atoi(m[1])
			return nil, Number(e)
		}
	}

	// Last resort: take the final digit run that is not a plausible year.
	var last string
	for _, run := range digitRunRegex.FindAllString(stripped, -1) {
		if isYear(run) {
			continue
		}
		last = run
	}
	if last != "" {
		e, _ := strconv.Atoi(last)
		return nil, Number(e)
	}

	return nil, 1
}

// isYear reports whether a digit run looks like a release year rather
// than an episode number.
func isYear(run string) bool {
	n, err := strconv.Atoi(run)
	return err == nil && n >= 1900 && n <= 2099
}

// SeasonNumber extracts a season number from a folder name. Returns nil
// when no season marker is present; a bare numeric folder like "86" is a
// title, not a season.
func SeasonNumber(folder string) *int {
	return firstInt(folder, seasonFolderRegexes)
}

// PartNumber extracts a part number ("Part 2", "P2") from a folder name.
func PartNumber(folder string) *int {
	return firstInt(folder, partFolderRegexes)
}

func firstInt(s string, regexes []*regexp.Regexp) *int {
	for _, re := range regexes {
		if m := re.FindStringSubmatch(s); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return intPtr(n)
			}
		}
	}
	return nil
}
