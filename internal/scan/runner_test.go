package scan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/mediashelf/internal/events"
	"github.com/vmunix/mediashelf/internal/images"
	"github.com/vmunix/mediashelf/internal/metadata"
	"github.com/vmunix/mediashelf/internal/provider"
	"github.com/vmunix/mediashelf/internal/provider/mocks"
	"github.com/vmunix/mediashelf/internal/scanner"
	"github.com/vmunix/mediashelf/internal/store"
	"github.com/vmunix/mediashelf/internal/thumbs"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func libraryTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Series", "My Show", "Episode 01.mkv"))
	writeFile(t, filepath.Join(root, "Series", "My Show", "Episode 02.mkv"))
	writeFile(t, filepath.Join(root, "Series", "Other Show", "Other Show - 01.mkv"))
	return root
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRunLocalOnlyEndToEnd(t *testing.T) {
	root := libraryTree(t)
	st := openTestStore(t)

	runner := NewRunner(
		scanner.New(nil),
		metadata.NewEngine(nil),
		st,
		WithUnitDelay(time.Millisecond),
	)
	require.NoError(t, runner.Run(context.Background(), []string{root}))

	records, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.GreaterOrEqual(t, rec.FileEpisodeCount(), 1)
		assert.Empty(t, rec.Provider)
	}
}

func TestRunWithProviderMatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "My Show", "Episode 01.mkv"))
	writeFile(t, filepath.Join(root, "My Show", "Episode 02.mkv"))
	st := openTestStore(t)

	ctrl := gomock.NewController(t)
	prov := mocks.NewMockProvider(ctrl)
	eps := 12
	prov.EXPECT().Search(gomock.Any(), "My Show", gomock.Any()).Return([]provider.Candidate{
		{ID: "10", Title: "My Show", Episodes: &eps, Status: provider.StatusFinished},
	}, nil)
	prov.EXPECT().Episodes(gomock.Any(), "10").Return([]provider.Episode{
		{Number: 1, Title: "Pilot"},
		{Number: 2, Title: "Second"},
	}, nil)
	prov.EXPECT().Name().Return("anilist").AnyTimes()

	bus := events.NewBus(nil)
	defer bus.Close()
	resolved := bus.Subscribe(events.TypeSeriesResolved, 10)

	runner := NewRunner(
		scanner.New(nil),
		metadata.NewEngine([]provider.Provider{prov}),
		st,
		WithUnitDelay(time.Millisecond),
		WithBus(bus),
	)
	require.NoError(t, runner.Run(context.Background(), []string{root}))

	records, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	for _, rec := range records {
		assert.Equal(t, "anilist", rec.Provider)
		assert.Equal(t, "My Show", rec.Title)
	}

	select {
	case e := <-resolved:
		assert.Equal(t, events.TypeSeriesResolved, e.EventType())
	default:
		t.Fatal("expected a series.resolved event")
	}
}

func TestRunDownloadsEpisodeThumbnails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "My Show", "Episode 01.mkv"))
	writeFile(t, filepath.Join(root, "My Show", "Episode 02.mkv"))
	st := openTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	prov := mocks.NewMockProvider(ctrl)
	eps := 2
	prov.EXPECT().Search(gomock.Any(), "My Show", gomock.Any()).Return([]provider.Candidate{
		{ID: "10", Title: "My Show", Episodes: &eps, Status: provider.StatusFinished,
			PosterURL: srv.URL + "/poster.jpg"},
	}, nil)
	prov.EXPECT().Episodes(gomock.Any(), "10").Return([]provider.Episode{
		{Number: 1, Title: "Pilot", ThumbnailURL: srv.URL + "/ep1.jpg"},
		{Number: 2, Title: "Second"},
	}, nil)
	prov.EXPECT().Name().Return("anilist").AnyTimes()

	cache, err := images.New(t.TempDir())
	require.NoError(t, err)

	runner := NewRunner(
		scanner.New(nil),
		metadata.NewEngine([]provider.Provider{prov}),
		st,
		WithUnitDelay(time.Millisecond),
		WithImageCache(cache),
	)
	require.NoError(t, runner.Run(context.Background(), []string{root}))

	records, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	for _, rec := range records {
		assert.NotEmpty(t, rec.PosterPath)
		require.Len(t, rec.Episodes, 2)
		require.NotEmpty(t, rec.Episodes[0].ThumbPath, "episode thumbnail downloaded")
		_, statErr := os.Stat(rec.Episodes[0].ThumbPath)
		assert.NoError(t, statErr)
		assert.Empty(t, rec.Episodes[1].ThumbPath, "no URL, no extractor configured")
	}
}

func TestRunExtractsFrameWhenThumbnailNotDownloaded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "My Show", "Episode 01.mkv"))
	st := openTestStore(t)

	ctrl := gomock.NewController(t)
	prov := mocks.NewMockProvider(ctrl)
	eps := 1
	prov.EXPECT().Search(gomock.Any(), "My Show", gomock.Any()).Return([]provider.Candidate{
		{ID: "10", Title: "My Show", Episodes: &eps, Status: provider.StatusFinished},
	}, nil)
	prov.EXPECT().Episodes(gomock.Any(), "10").Return([]provider.Episode{
		{Number: 1, Title: "Pilot", ThumbnailURL: "http://img/ep1.jpg"},
	}, nil)
	prov.EXPECT().Name().Return("anilist").AnyTimes()

	ffmpeg := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor a; do out=\"$a\"; done\nprintf 'jpeg-bytes' > \"$out\"\n"
	require.NoError(t, os.WriteFile(ffmpeg, []byte(script), 0755))
	ext, err := thumbs.New(t.TempDir(), thumbs.WithFFmpegPath(ffmpeg))
	require.NoError(t, err)

	// No image cache wired: the remote thumbnail URL cannot be fetched,
	// so the extractor must still produce a local frame.
	runner := NewRunner(
		scanner.New(nil),
		metadata.NewEngine([]provider.Provider{prov}),
		st,
		WithUnitDelay(time.Millisecond),
		WithThumbnails(ext),
	)
	require.NoError(t, runner.Run(context.Background(), []string{root}))

	records, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	for _, rec := range records {
		require.Len(t, rec.Episodes, 1)
		assert.NotEmpty(t, rec.Episodes[0].ThumbPath, "frame extracted despite remote URL")
	}
}

func TestRunFatalRootLeavesStoreUntouched(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	seed := &metadata.SeriesRecord{
		ID:         "old_show",
		Title:      "Old Show",
		FolderPath: "/gone",
		Episodes:   []metadata.EpisodeRecord{{Number: 1, File: "/gone/01.mkv"}},
	}
	require.NoError(t, st.Replace(ctx, map[string]*metadata.SeriesRecord{seed.ID: seed}))

	runner := NewRunner(scanner.New(nil), metadata.NewEngine(nil), st,
		WithUnitDelay(time.Millisecond))
	err := runner.Run(ctx, []string{"/does/not/exist"})
	require.Error(t, err)

	records, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, records, "old_show", "failed scan must not clear the catalog")
}

func TestRunRejectsOverlappingScans(t *testing.T) {
	root := libraryTree(t)
	st := openTestStore(t)

	ctrl := gomock.NewController(t)
	prov := mocks.NewMockProvider(ctrl)
	started := make(chan struct{})
	release := make(chan struct{})
	prov.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, query string, limit int) ([]provider.Candidate, error) {
			close(started)
			<-release
			return nil, provider.ErrNotFound
		})
	prov.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, provider.ErrNotFound).AnyTimes()
	prov.EXPECT().Name().Return("anilist").AnyTimes()

	runner := NewRunner(scanner.New(nil),
		metadata.NewEngine([]provider.Provider{prov}),
		st, WithUnitDelay(time.Millisecond))

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), []string{root})
	}()

	<-started
	err := runner.Run(context.Background(), []string{root})
	assert.ErrorIs(t, err, ErrScanInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestRunCancelBetweenUnits(t *testing.T) {
	root := libraryTree(t)
	st := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(scanner.New(nil), metadata.NewEngine(nil), st,
		WithUnitDelay(time.Millisecond))
	err := runner.Run(ctx, []string{root})
	require.Error(t, err)

	records, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records, "canceled scan must not persist")
}
