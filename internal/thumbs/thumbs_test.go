package thumbs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFFmpeg writes a shell script standing in for the ffmpeg binary.
// failAbove makes it fail for -ss values above the given threshold,
// mimicking a seek past the end of a short video.
func fakeFFmpeg(t *testing.T, failAbove int) string {
	t.Helper()
	script := `#!/bin/sh
ts=""
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -ss) shift; ts="$1" ;;
    *) out="$1" ;;
  esac
  shift
done
if [ "$ts" -gt ` + strconv.Itoa(failAbove) + ` ]; then
  echo "frame=0" >&2
  exit 1
fi
printf 'jpeg-bytes' > "$out"
`
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestExtractAtDefaultTimestamp(t *testing.T) {
	ext, err := New(t.TempDir(), WithFFmpegPath(fakeFFmpeg(t, 1000)))
	require.NoError(t, err)

	p, err := ext.Extract(context.Background(), "/videos/episode01.mkv")
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestExtractRetriesEarlierForShortVideos(t *testing.T) {
	// Fails at the default timestamp, succeeds at the fallback.
	ext, err := New(t.TempDir(), WithFFmpegPath(fakeFFmpeg(t, 60)))
	require.NoError(t, err)

	p, err := ext.Extract(context.Background(), "/videos/short.mkv")
	require.NoError(t, err)
	assert.FileExists(t, p)
}

func TestExtractGivesUpAfterFallback(t *testing.T) {
	ext, err := New(t.TempDir(), WithFFmpegPath(fakeFFmpeg(t, 0)))
	require.NoError(t, err)

	_, err = ext.Extract(context.Background(), "/videos/broken.mkv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.mkv")
}

func TestExtractReusesExistingThumb(t *testing.T) {
	dir := t.TempDir()
	ext, err := New(dir, WithFFmpegPath(fakeFFmpeg(t, 1000)))
	require.NoError(t, err)

	first, err := ext.Extract(context.Background(), "/videos/episode01.mkv")
	require.NoError(t, err)

	// Swap the binary for one that always fails; the cached thumb
	// must still be returned without invoking it.
	ext2, err := New(dir, WithFFmpegPath(fakeFFmpeg(t, 0)))
	require.NoError(t, err)
	second, err := ext2.Extract(context.Background(), "/videos/episode01.mkv")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestThumbPathDistinguishesFolders(t *testing.T) {
	ext, err := New(t.TempDir())
	require.NoError(t, err)

	a := ext.thumbPath("/library/Show A/01.mkv")
	b := ext.thumbPath("/library/Show B/01.mkv")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, ext.thumbPath("/library/Show A/01.mkv"))
}
