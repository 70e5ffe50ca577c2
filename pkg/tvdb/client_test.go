package tvdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTVDB creates a test server that simulates the TVDB API.
func mockTVDB(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.URL.Path]; ok {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic("test: failed to encode JSON: " + err.Error())
	}
}

func loginHandler(token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, loginResponse{
			Status: "success",
			Data: struct {
				Token string `json:"token"`
			}{Token: token},
		})
	}
}

func TestSearch(t *testing.T) {
	srv := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("tok"),
		"/search": func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "My Show", r.URL.Query().Get("query"))
			writeJSON(w, map[string]any{
				"status": "success",
				"data": []map[string]any{
					{
						"objectID": "series-123",
						"tvdb_id":  "123",
						"name":     "My Show",
						"aliases":  []string{"Mein Show"},
						"year":     "2019",
						"status":   "Ended",
						"overview": "A show.",
						"image_url": "http://img/poster.jpg",
						"genres":   []string{"Drama"},
					},
				},
			})
		},
	})
	defer srv.Close()

	client := New("key", WithBaseURL(srv.URL))
	results, err := client.Search(context.Background(), "My Show")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 123, results[0].ID)
	assert.Equal(t, "My Show", results[0].Name)
	assert.Equal(t, 2019, results[0].Year)
	assert.Equal(t, []string{"Mein Show"}, results[0].Aliases)
	assert.Equal(t, "http://img/poster.jpg", results[0].Image)
}

func TestSearchRateLimited(t *testing.T) {
	srv := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("tok"),
		"/search": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
	})
	defer srv.Close()

	client := New("key", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGetEpisodesPaged(t *testing.T) {
	srv := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("tok"),
		"/series/5/episodes/default": func(w http.ResponseWriter, r *http.Request) {
			page := r.URL.Query().Get("page")
			switch page {
			case "0":
				writeJSON(w, map[string]any{
					"data": map[string]any{
						"episodes": []map[string]any{
							{"id": 1, "seasonNumber": 1, "number": 1, "name": "Pilot", "aired": "2019-01-07"},
						},
					},
					"links": map[string]any{"next": "/series/5/episodes/default?page=1"},
				})
			default:
				writeJSON(w, map[string]any{
					"data": map[string]any{
						"episodes": []map[string]any{
							{"id": 2, "seasonNumber": 1, "number": 2, "name": "Two"},
						},
					},
					"links": map[string]any{"next": ""},
				})
			}
		},
	})
	defer srv.Close()

	client := New("key", WithBaseURL(srv.URL))
	episodes, err := client.GetEpisodes(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, "Pilot", episodes[0].Name)
	assert.Equal(t, 2019, episodes[0].AirDate.Year())
	assert.Equal(t, 2, episodes[1].Episode)
}

func TestTokenRefreshOn401(t *testing.T) {
	logins := 0
	srv := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": func(w http.ResponseWriter, r *http.Request) {
			logins++
			loginHandler("tok")(w, r)
		},
		"/search": func(w http.ResponseWriter, r *http.Request) {
			if logins < 2 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(w, map[string]any{"status": "success", "data": []map[string]any{}})
		},
	})
	defer srv.Close()

	client := New("key", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 2, logins)
}
