package scanner

import (
	"path/filepath"
	"strings"
)

var videoExts = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true, ".wmv": true,
	".flv": true, ".webm": true, ".mpeg": true, ".mpg": true, ".m4v": true,
	".ts": true, ".m2ts": true, ".ogv": true,
}

var subtitleExts = map[string]bool{
	".srt": true, ".ass": true, ".ssa": true, ".sub": true, ".idx": true,
	".vtt": true, ".smi": true, ".sup": true,
}

// IsVideo reports whether filename has a recognized video extension.
// Sample files are excluded.
func IsVideo(filename string) bool {
	if strings.Contains(strings.ToLower(filename), "sample") {
		return false
	}
	return videoExts[strings.ToLower(filepath.Ext(filename))]
}

// IsSubtitle reports whether filename has a recognized subtitle extension.
func IsSubtitle(filename string) bool {
	return subtitleExts[strings.ToLower(filepath.Ext(filename))]
}

// subtitleKey strips the extension and an optional language code so that
// "show.01.en.srt" groups with "show.01.mkv".
func subtitleKey(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	// Trailing two or three letter language code: "show.01.en" -> "show.01"
	if ext := filepath.Ext(base); len(ext) == 3 || len(ext) == 4 {
		if isAlpha(ext[1:]) {
			base = strings.TrimSuffix(base, ext)
		}
	}
	return strings.ToLower(base)
}

// videoKey strips the extension for subtitle pairing.
func videoKey(filename string) string {
	return strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}
