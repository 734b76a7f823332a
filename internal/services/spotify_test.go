package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// newSpotifyTestServer serves the token endpoint plus a handler for every
// other path, counting token requests so caching can be asserted.
func newSpotifyTestServer(t *testing.T, tokenCalls *int32, api http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		if r.Method != http.MethodPost {
			t.Errorf("token request method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got == "" {
			t.Error("token request missing Basic auth header")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("api Authorization = %q, want Bearer test-token", got)
		}
		api(w, r)
	})
	return httptest.NewServer(mux)
}

func newTestSpotifyClient(server *httptest.Server) *SpotifyClient {
	c := NewSpotifyClient("id", "secret", NewTokenCache(), zap.NewNop().Sugar())
	c.AuthEndpoint = server.URL + "/api/token"
	c.APIEndpoint = server.URL
	c.HTTPClient = server.Client()
	return c
}

func TestSpotifySearchArtists(t *testing.T) {
	var tokenCalls int32
	server := newSpotifyTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "artist" {
			t.Errorf("search type = %q, want artist", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"artists": map[string]interface{}{
				"items": []map[string]interface{}{
					{
						"id":     "a1",
						"name":   "Radiohead",
						"images": []map[string]string{{"url": "http://img/1"}},
					},
				},
			},
		})
	})
	defer server.Close()

	artists, err := newTestSpotifyClient(server).SearchArtists(context.Background(), "radiohead")
	if err != nil {
		t.Fatalf("SearchArtists failed: %v", err)
	}
	if len(artists) != 1 {
		t.Fatalf("got %d artists, want 1", len(artists))
	}
	if artists[0].ID != "a1" || artists[0].Name != "Radiohead" || artists[0].Picture != "http://img/1" {
		t.Errorf("unexpected artist: %+v", artists[0])
	}
}

func TestSpotifyTokenIsCachedAcrossCalls(t *testing.T) {
	var tokenCalls int32
	server := newSpotifyTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tracks": map[string]interface{}{"items": []interface{}{}},
		})
	})
	defer server.Close()

	c := newTestSpotifyClient(server)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.SearchTracks(ctx, "q"); err != nil {
			t.Fatalf("SearchTracks call %d failed: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&tokenCalls); n != 1 {
		t.Errorf("token endpoint hit %d times, want 1 (cached)", n)
	}
}

func TestSpotifySearchTracksJoinsArtistNames(t *testing.T) {
	var tokenCalls int32
	server := newSpotifyTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tracks": map[string]interface{}{
				"items": []map[string]interface{}{
					{
						"id":   "t1",
						"name": "Song",
						"artists": []map[string]string{
							{"name": "A"}, {"name": "B"},
						},
						"album": map[string]interface{}{
							"images": []map[string]string{{"url": "http://img/a"}},
						},
					},
				},
			},
		})
	})
	defer server.Close()

	songs, err := newTestSpotifyClient(server).SearchTracks(context.Background(), "song")
	if err != nil {
		t.Fatalf("SearchTracks failed: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("got %d songs, want 1", len(songs))
	}
	if songs[0].Artist != "A, B" {
		t.Errorf("Artist = %q, want joined names", songs[0].Artist)
	}
	if songs[0].AlbumArt != "http://img/a" {
		t.Errorf("AlbumArt = %q, want album image", songs[0].AlbumArt)
	}
}

func TestSpotifyRecommendationsCapsSeeds(t *testing.T) {
	var tokenCalls int32
	server := newSpotifyTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("seed_artists"); got != "a1,a2" {
			t.Errorf("seed_artists = %q, want first two seeds", got)
		}
		if got := r.URL.Query().Get("seed_tracks"); got != "t1" {
			t.Errorf("seed_tracks = %q, want t1", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tracks": []map[string]interface{}{
				{
					"id":      "r1",
					"name":    "Rec",
					"artists": []map[string]string{{"name": "A"}},
					"album": map[string]interface{}{
						"images": []map[string]string{{"url": "http://img/r"}},
					},
				},
			},
		})
	})
	defer server.Close()

	songs, err := newTestSpotifyClient(server).Recommendations(
		context.Background(),
		[]string{"a1", "a2", "a3"},
		[]string{"t1"},
	)
	if err != nil {
		t.Fatalf("Recommendations failed: %v", err)
	}
	if len(songs) != 1 || songs[0].ID != "r1" {
		t.Errorf("unexpected recommendations: %+v", songs)
	}
}

func TestSpotifyUpstreamErrorSurfaces(t *testing.T) {
	var tokenCalls int32
	server := newSpotifyTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	defer server.Close()

	if _, err := newTestSpotifyClient(server).SearchAlbums(context.Background(), "q"); err == nil {
		t.Fatal("expected error on upstream 429")
	}
}
