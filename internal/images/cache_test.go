package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadCachesByURL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	cache, err := New(t.TempDir())
	require.NoError(t, err)

	url := srv.URL + "/poster.jpg"
	first, err := cache.Download(context.Background(), url)
	require.NoError(t, err)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	// Second download of the same URL is served from disk.
	second, err := cache.Download(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestPathIsStableAndKeepsExtension(t *testing.T) {
	cache, err := New(t.TempDir())
	require.NoError(t, err)

	p1 := cache.Path("http://img.example/a/poster.jpg")
	p2 := cache.Path("http://img.example/a/poster.jpg")
	p3 := cache.Path("http://img.example/b/poster.jpg")

	assert.Equal(t, p1, p2)
	assert.NotEqual(t, p1, p3, "different URLs map to different files")
	assert.Contains(t, p1, ".jpg")

	noExt := cache.Path("http://img.example/a/poster")
	assert.Contains(t, noExt, ".jpg", "extensionless URLs default to .jpg")
}

func TestDownloadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cache, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = cache.Download(context.Background(), srv.URL+"/missing.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDownloadAllSkipsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.jpg" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cache, err := New(t.TempDir())
	require.NoError(t, err)

	urls := []string{
		srv.URL + "/a.jpg",
		srv.URL + "/bad.jpg",
		srv.URL + "/b.jpg",
		srv.URL + "/c.jpg",
		srv.URL + "/d.jpg",
		srv.URL + "/e.jpg",
	}
	paths := cache.DownloadAll(context.Background(), urls)

	assert.Len(t, paths, 5)
	assert.NotContains(t, paths, srv.URL+"/bad.jpg")
	for url, p := range paths {
		assert.FileExists(t, p, "cached file for %s", url)
	}
}
