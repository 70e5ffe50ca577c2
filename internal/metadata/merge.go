package metadata

import (
	"fmt"

	"github.com/vmunix/mediashelf/internal/provider"
	"github.com/vmunix/mediashelf/internal/scanner"
	"github.com/vmunix/mediashelf/pkg/mediafile"
)

// mergeEpisodes attaches local files to provider episodes. Matching is
// by (season, number) first, then by number alone for files whose season
// the provider does not model. Provider episodes with no file stay in
// the record as not-downloaded; local files with no provider episode
// (typically x.5 specials) are appended so nothing on disk is dropped.
func mergeEpisodes(provEps []provider.Episode, files []*scanner.VideoFile) []EpisodeRecord {
	records := make([]EpisodeRecord, len(provEps))
	for i, ep := range provEps {
		records[i] = EpisodeRecord{
			Number:       mediafile.Number(ep.Number),
			Title:        ep.Title,
			AirDate:      ep.AirDate,
			ThumbnailURL: ep.ThumbnailURL,
		}
		if ep.Season > 0 {
			s := ep.Season
			records[i].Season = &s
		}
	}

	claimed := make([]bool, len(records))
	for _, f := range files {
		idx := matchEpisode(records, claimed, f)
		if idx < 0 {
			records = append(records, localEpisode(f))
			claimed = append(claimed, true)
			continue
		}
		attachFile(&records[idx], f)
		claimed[idx] = true
	}
	return records
}

// matchEpisode finds the provider episode for a file: exact
// (season, number) when the file carries a season, then number alone.
// Already-claimed episodes are skipped so duplicate numbering across
// seasons does not double-assign.
func matchEpisode(records []EpisodeRecord, claimed []bool, f *scanner.VideoFile) int {
	if f.Season != nil {
		for i := range records {
			if claimed[i] {
				continue
			}
			if records[i].Season != nil && *records[i].Season == *f.Season && records[i].Number == f.Episode {
				return i
			}
		}
	}
	for i := range records {
		if claimed[i] {
			continue
		}
		if records[i].Number == f.Episode {
			return i
		}
	}
	return -1
}

func attachFile(rec *EpisodeRecord, f *scanner.VideoFile) {
	rec.File = f.Path
	rec.Subtitle = f.Subtitle
	rec.Subtitles = f.Subtitles
	if rec.Season == nil && f.Season != nil {
		s := *f.Season
		rec.Season = &s
	}
}

// localEpisode synthesizes a record entry straight from a file, used
// both for specials absent from provider data and for local-only units.
func localEpisode(f *scanner.VideoFile) EpisodeRecord {
	rec := EpisodeRecord{
		Number:    f.Episode,
		Title:     episodeTitle(f),
		File:      f.Path,
		Subtitle:  f.Subtitle,
		Subtitles: f.Subtitles,
	}
	if f.Season != nil {
		s := *f.Season
		rec.Season = &s
	}
	return rec
}

func episodeTitle(f *scanner.VideoFile) string {
	if f.Title != "" {
		return f.Title
	}
	return fmt.Sprintf("Episode %s", f.Episode)
}
