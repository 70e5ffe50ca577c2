package mediafile

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// Confidence is the confidence level of a fuzzy title match.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // score < 0.70
	ConfidenceLow                      // score >= 0.70
	ConfidenceMedium                   // score >= 0.85
	ConfidenceHigh                     // score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// ConfidenceFor maps a similarity score to a confidence level.
func ConfidenceFor(score float64) Confidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// Similarity returns the Jaro-Winkler similarity of two titles after
// normalization. Jaro-Winkler favours shared prefixes, which suits media
// titles where the distinguishing part comes last.
func Similarity(a, b string) float64 {
	return float64(edlib.JaroWinklerSimilarity(NormalizeTitle(a), NormalizeTitle(b)))
}

// BestSimilarity returns the highest similarity between query and any of
// the candidate titles. Empty candidates are skipped.
func BestSimilarity(query string, titles ...string) float64 {
	best := 0.0
	for _, t := range titles {
		if t == "" {
			continue
		}
		if s := Similarity(query, t); s > best {
			best = s
		}
	}
	return best
}

// TitlesMatch decides whether a cached record title still covers a freshly
// derived series name. Both sides must normalize to at least 3 characters
// before anything else is considered: shorter names ("86", "K") force a
// provider re-fetch on every scan, even when they are identical, as too
// ambiguous to trust. Past that bar, normalized equality matches, and a
// substring match is trusted when the derived name is at least 5 characters.
//
// The substring rule can accept a wrong cached match when one title is a
// short word contained in a longer unrelated one. That looseness is
// deliberate; tightening it changes cache-hit behavior.
func TitlesMatch(cachedTitle, derivedName string) bool {
	cached := NormalizeTitle(cachedTitle)
	derived := NormalizeTitle(derivedName)

	if len(derived) < 3 || len(cached) < 3 {
		return false
	}
	if cached == derived {
		return true
	}
	if len(derived) >= 5 {
		return strings.Contains(cached, derived) || strings.Contains(derived, cached)
	}
	return false
}
