package mediafile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Show (Season 2)", "my show"},
		{"My   Show!", "my show"},
		{"Léon", "leon"},
		{"86", "86"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.in))
		})
	}
}

func TestTitlesMatch(t *testing.T) {
	tests := []struct {
		name    string
		cached  string
		derived string
		want    bool
	}{
		{"exact", "My Show", "My Show", true},
		{"case and punctuation ignored", "My Show!", "my show", true},
		{"season suffix stripped from cache", "My Show (Season 2)", "My Show", true},
		{"substring accepted at length five", "My Show The Sequel", "My Show", true},
		{"substring both directions", "My Show", "My Show The Sequel", true},
		{"short derived name forces refetch", "86", "86", false},
		{"short substring not trusted", "Bleach", "Ble", false},
		{"unrelated", "My Show", "Another Title", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitlesMatch(tt.cached, tt.derived))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("My Show", "my show!"), 0.001)
	assert.Greater(t, Similarity("My Show", "My Show 2"), Similarity("My Show", "Something Else"))
}

func TestBestSimilarity(t *testing.T) {
	best := BestSimilarity("Fullmetal Alchemist", "", "Hagane no Renkinjutsushi", "Fullmetal Alchemist: Brotherhood")
	assert.Greater(t, best, 0.7)
	assert.Equal(t, 0.0, BestSimilarity("query"))
}

func TestConfidenceFor(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ConfidenceFor(0.96))
	assert.Equal(t, ConfidenceMedium, ConfidenceFor(0.86))
	assert.Equal(t, ConfidenceLow, ConfidenceFor(0.71))
	assert.Equal(t, ConfidenceNone, ConfidenceFor(0.5))
	assert.Equal(t, "high", ConfidenceHigh.String())
}
