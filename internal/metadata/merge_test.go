package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/mediashelf/internal/provider"
	"github.com/vmunix/mediashelf/internal/scanner"
	"github.com/vmunix/mediashelf/pkg/mediafile"
)

func TestMergeExactSeasonMatch(t *testing.T) {
	provEps := []provider.Episode{
		{Season: 1, Number: 1, Title: "S1 Opener"},
		{Season: 2, Number: 1, Title: "S2 Opener"},
	}
	files := []*scanner.VideoFile{
		{Path: "/lib/show/S02E01.mkv", Season: intPtr(2), Episode: 1},
	}

	records := mergeEpisodes(provEps, files)

	require.Len(t, records, 2)
	assert.Empty(t, records[0].File)
	assert.Equal(t, "/lib/show/S02E01.mkv", records[1].File)
}

func TestMergeNumberOnlyFallback(t *testing.T) {
	// Provider has no season concept; the file carries one from its
	// folder. Number-only matching still pairs them.
	provEps := []provider.Episode{
		{Number: 1, Title: "One"},
		{Number: 2, Title: "Two"},
	}
	files := []*scanner.VideoFile{
		{Path: "/lib/show/Season 2/02.mkv", Season: intPtr(2), Episode: 2},
	}

	records := mergeEpisodes(provEps, files)

	require.Len(t, records, 2)
	assert.Equal(t, "/lib/show/Season 2/02.mkv", records[1].File)
	require.NotNil(t, records[1].Season)
	assert.Equal(t, 2, *records[1].Season, "file season backfills the record")
}

func TestMergeAppendsUnmatchedSpecials(t *testing.T) {
	provEps := []provider.Episode{
		{Number: 6, Title: "Six"},
	}
	files := []*scanner.VideoFile{
		{Path: "/lib/show/06.mkv", Episode: 6},
		{Path: "/lib/show/06.5.mkv", Episode: 6.5, Subtitle: "/lib/show/06.5.srt"},
	}

	records := mergeEpisodes(provEps, files)

	require.Len(t, records, 2)
	assert.Equal(t, mediafile.Number(6.5), records[1].Number)
	assert.Equal(t, "/lib/show/06.5.mkv", records[1].File)
	assert.Equal(t, "/lib/show/06.5.srt", records[1].Subtitle)
}

func TestMergeKeepsNotDownloadedEpisodes(t *testing.T) {
	provEps := []provider.Episode{
		{Number: 1, Title: "One"},
		{Number: 2, Title: "Two"},
		{Number: 3, Title: "Three"},
	}
	files := []*scanner.VideoFile{
		{Path: "/lib/show/01.mkv", Episode: 1},
	}

	records := mergeEpisodes(provEps, files)

	require.Len(t, records, 3)
	assert.True(t, records[0].Downloaded())
	assert.False(t, records[1].Downloaded())
	assert.False(t, records[2].Downloaded())
}

func TestMergeDoesNotDoubleAssign(t *testing.T) {
	// Two files with the same episode number in different seasons must
	// not claim the same provider entry.
	provEps := []provider.Episode{
		{Season: 1, Number: 1, Title: "S1E1"},
		{Season: 2, Number: 1, Title: "S2E1"},
	}
	files := []*scanner.VideoFile{
		{Path: "/lib/show/S01E01.mkv", Season: intPtr(1), Episode: 1},
		{Path: "/lib/show/S02E01.mkv", Season: intPtr(2), Episode: 1},
	}

	records := mergeEpisodes(provEps, files)

	require.Len(t, records, 2)
	assert.Equal(t, "/lib/show/S01E01.mkv", records[0].File)
	assert.Equal(t, "/lib/show/S02E01.mkv", records[1].File)
}

func TestFileEpisodeCount(t *testing.T) {
	rec := &SeriesRecord{Episodes: []EpisodeRecord{
		{Number: 1, File: "/lib/a.mkv"},
		{Number: 2},
		{Number: 3, File: "/lib/c.mkv"},
	}}
	assert.Equal(t, 2, rec.FileEpisodeCount())
}
