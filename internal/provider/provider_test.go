package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAcceptable(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusFinished, true},
		{StatusReleasing, true},
		{StatusUnknown, true},
		{StatusNotYetReleased, false},
		{StatusCancelled, false},
		{StatusHiatus, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Acceptable())
		})
	}
}

func TestStatusMappings(t *testing.T) {
	assert.Equal(t, StatusFinished, anilistStatus("FINISHED"))
	assert.Equal(t, StatusNotYetReleased, anilistStatus("NOT_YET_RELEASED"))
	assert.Equal(t, StatusHiatus, anilistStatus("HIATUS"))
	assert.Equal(t, StatusUnknown, anilistStatus("SOMETHING_NEW"))

	assert.Equal(t, StatusFinished, malStatus("Finished Airing"))
	assert.Equal(t, StatusReleasing, malStatus("currently airing"))
	assert.Equal(t, StatusNotYetReleased, malStatus("Not yet aired"))
	assert.Equal(t, StatusUnknown, malStatus(""))

	assert.Equal(t, StatusFinished, tvdbStatus("Ended"))
	assert.Equal(t, StatusReleasing, tvdbStatus("Continuing"))
	assert.Equal(t, StatusNotYetReleased, tvdbStatus("Upcoming"))
}

func TestRankCandidatesPrefersCloserTitles(t *testing.T) {
	ranked := rankCandidates("My Show", []Candidate{
		{ID: "1", Title: "Entirely Different Series"},
		{ID: "2", Title: "My Show"},
		{ID: "3", Title: "My Show Movie"},
	})

	assert.Equal(t, "2", ranked[0].ID)
	assert.Greater(t, ranked[0].Similarity, ranked[2].Similarity)
}

func TestRankCandidatesUsesAltTitles(t *testing.T) {
	ranked := rankCandidates("Eighty Six", []Candidate{
		{ID: "1", Title: "Some Other Name"},
		{ID: "2", Title: "86", AltTitles: []string{"Eighty Six"}},
	})

	assert.Equal(t, "2", ranked[0].ID, "alt title should carry the match")
}

func TestRankCandidatesStableAmongEquals(t *testing.T) {
	ranked := rankCandidates("My Show", []Candidate{
		{ID: "first", Title: "My Show"},
		{ID: "second", Title: "My Show"},
	})
	assert.Equal(t, "first", ranked[0].ID, "provider order preserved for equal scores")
}
