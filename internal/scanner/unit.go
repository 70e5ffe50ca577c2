// Package scanner walks library roots and classifies their contents into
// media units: series folders, category folders of series, and loose
// movie files.
package scanner

import (
	"sort"

	"github.com/vmunix/mediashelf/pkg/mediafile"
)

// Kind distinguishes series from movies.
type Kind string

const (
	KindSeries Kind = "series"
	KindMovie  Kind = "movie"
)

// VideoFile is one playable file discovered during a scan. Immutable
// after scanning.
type VideoFile struct {
	Name      string            // base filename
	Path      string            // absolute path
	Title     string            // cleaned title
	Season    *int              // nil when no explicit or folder-derived season
	Episode   mediafile.Number  // whole or x.5
	Subtitle  string            // primary subtitle path, empty if none
	Subtitles []string          // all matched subtitle paths
	Folder    string            // parent folder name
}

// MediaUnit is one series or movie produced by a scan pass. A new scan
// supersedes prior units rather than mutating them.
type MediaUnit struct {
	ID     string
	Name   string
	Kind   Kind
	Path   string
	Files  []*VideoFile
	Season *int
	Part   *int
}

// CanonicalEpisodeCount is the number of whole-number episodes in the
// unit. Half episodes are specials and do not count toward the total a
// provider is expected to report.
func (u *MediaUnit) CanonicalEpisodeCount() int {
	n := 0
	for _, f := range u.Files {
		if f.Episode.IsWhole() {
			n++
		}
	}
	return n
}

// sortFiles orders files by (season, episode) ascending. A nil season
// sorts as season 0.
func sortFiles(files []*VideoFile) {
	sort.SliceStable(files, func(i, j int) bool {
		si, sj := seasonOrZero(files[i].Season), seasonOrZero(files[j].Season)
		if si != sj {
			return si < sj
		}
		return files[i].Episode < files[j].Episode
	})
}

func seasonOrZero(s *int) int {
	if s == nil {
		return 0
	}
	return *s
}
