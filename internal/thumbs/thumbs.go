// Package thumbs extracts preview frames from local video files with
// ffmpeg. Extraction is deliberately sequential per unit; each run is
// one external process.
package thumbs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

const (
	defaultTimestamp  = 180 // 3 minutes in
	fallbackTimestamp = 10  // for videos shorter than the default
)

// Extractor runs ffmpeg to pull single frames out of video files.
type Extractor struct {
	ffmpegPath string
	dir        string
	log        *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFFmpegPath overrides the ffmpeg binary location.
func WithFFmpegPath(path string) Option {
	return func(e *Extractor) {
		e.ffmpegPath = path
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Extractor) {
		e.log = log
	}
}

// New creates a thumbnail extractor writing frames under dir.
func New(dir string, opts ...Option) (*Extractor, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create thumbnail directory: %w", err)
	}
	e := &Extractor{
		ffmpegPath: "ffmpeg",
		dir:        dir,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract produces a thumbnail for videoPath and returns the image
// path. A failure at the default timestamp is retried once at an
// earlier one before giving up, so short videos still get a frame.
func (e *Extractor) Extract(ctx context.Context, videoPath string) (string, error) {
	dst := e.thumbPath(videoPath)
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}

	if err := e.extractAt(ctx, videoPath, dst, defaultTimestamp); err != nil {
		if e.log != nil {
			e.log.Debug("frame extraction failed, retrying earlier",
				"video", videoPath, "timestamp", defaultTimestamp, "error", err)
		}
		if err := e.extractAt(ctx, videoPath, dst, fallbackTimestamp); err != nil {
			return "", fmt.Errorf("extract frame from %s: %w", filepath.Base(videoPath), err)
		}
	}
	return dst, nil
}

func (e *Extractor) extractAt(ctx context.Context, videoPath, dst string, timestamp int) error {
	cmd := exec.CommandContext(ctx, e.ffmpegPath,
		"-ss", strconv.Itoa(timestamp),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "3",
		"-y",
		dst)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(out))
	}
	// ffmpeg exits 0 on a seek past EOF but writes nothing.
	if info, err := os.Stat(dst); err != nil || info.Size() == 0 {
		os.Remove(dst)
		return fmt.Errorf("ffmpeg produced no frame at %ds", timestamp)
	}
	return nil
}

// thumbPath derives a stable image name from the full video path; the
// hash suffix keeps same-named files in different folders apart.
func (e *Extractor) thumbPath(videoPath string) string {
	base := filepath.Base(videoPath)
	stem := base[:len(base)-len(filepath.Ext(base))]
	sum := sha256.Sum256([]byte(videoPath))
	return filepath.Join(e.dir, fmt.Sprintf("%s-%s.jpg", stem, hex.EncodeToString(sum[:4])))
}

func lastLine(out []byte) string {
	end := len(out)
	for end > 0 && (out[end-1] == '\n' || out[end-1] == '\r') {
		end--
	}
	start := end
	for start > 0 && out[start-1] != '\n' {
		start--
	}
	return string(out[start:end])
}
