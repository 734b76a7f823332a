package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/models"
)

// TokenCache holds one client-credentials access token with its expiry. It
// is owned by the SpotifyClient and injected at construction, never held as
// process-wide state.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Get returns the cached token if it is still valid.
func (c *TokenCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || time.Now().After(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

// Set stores a fresh token. A small safety margin is shaved off the TTL so
// a token is never used right at its expiry boundary.
func (c *TokenCache) Set(token string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = time.Now().Add(ttl - 30*time.Second)
}

// SpotifyClient wraps the Spotify Web API endpoints the app uses: catalog
// search, recommendations, related artists, and album tracks.
type SpotifyClient struct {
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
	AuthEndpoint string
	APIEndpoint  string

	cache  *TokenCache
	logger *zap.SugaredLogger
}

func NewSpotifyClient(clientID, clientSecret string, cache *TokenCache, logger *zap.SugaredLogger) *SpotifyClient {
	if cache == nil {
		cache = NewTokenCache()
	}
	return &SpotifyClient{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthEndpoint: "https://accounts.spotify.com/api/token",
		APIEndpoint:  "https://api.spotify.com/v1",
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:  cache,
		logger: logger,
	}
}

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *SpotifyClient) accessToken(ctx context.Context) (string, error) {
	if token, ok := c.cache.Get(); ok {
		return token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AuthEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	authString := base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.ClientSecret))
	req.Header.Set("Authorization", "Basic "+authString)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify token http %d", resp.StatusCode)
	}

	var out spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("spotify token response missing access_token")
	}

	c.cache.Set(out.AccessToken, time.Duration(out.ExpiresIn)*time.Second)
	if c.logger != nil {
		c.logger.Debugw("spotify token refreshed", "expires_in", out.ExpiresIn)
	}
	return out.AccessToken, nil
}

func (c *SpotifyClient) get(ctx context.Context, path string, params url.Values, target interface{}) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("spotify auth: %w", err)
	}

	endpoint := c.APIEndpoint + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spotify %s http %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

type spotifyImage struct {
	URL string `json:"url"`
}

type spotifyArtist struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Popularity int            `json:"popularity"`
	Images     []spotifyImage `json:"images"`
}

type spotifyAlbum struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
	Images  []spotifyImage  `json:"images"`
}

type spotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
	Album   spotifyAlbum    `json:"album"`
}

func firstImage(images []spotifyImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

// SearchArtists searches the catalog for artists matching query.
func (c *SpotifyClient) SearchArtists(ctx context.Context, query string) ([]models.Artist, error) {
	var out struct {
		Artists struct {
			Items []spotifyArtist `json:"items"`
		} `json:"artists"`
	}
	params := url.Values{"q": {query}, "type": {"artist"}, "limit": {"10"}}
	if err := c.get(ctx, "/search", params, &out); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(out.Artists.Items))
	for _, a := range out.Artists.Items {
		artists = append(artists, models.Artist{
			ID:      a.ID,
			Name:    a.Name,
			Picture: firstImage(a.Images),
		})
	}
	return artists, nil
}

// SearchAlbums searches the catalog for albums matching query.
func (c *SpotifyClient) SearchAlbums(ctx context.Context, query string) ([]models.Album, error) {
	var out struct {
		Albums struct {
			Items []spotifyAlbum `json:"items"`
		} `json:"albums"`
	}
	params := url.Values{"q": {query}, "type": {"album"}, "limit": {"10"}}
	if err := c.get(ctx, "/search", params, &out); err != nil {
		return nil, err
	}

	albums := make([]models.Album, 0, len(out.Albums.Items))
	for _, a := range out.Albums.Items {
		album := models.Album{
			ID:       a.ID,
			Name:     a.Name,
			AlbumArt: firstImage(a.Images),
		}
		if len(a.Artists) > 0 {
			album.Artist = a.Artists[0].Name
		}
		albums = append(albums, album)
	}
	return albums, nil
}

// SearchTracks searches the catalog for tracks matching query.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string) ([]models.Song, error) {
	var out struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	params := url.Values{"q": {query}, "type": {"track"}, "limit": {"10"}}
	if err := c.get(ctx, "/search", params, &out); err != nil {
		return nil, err
	}
	return tracksToSongs(out.Tracks.Items), nil
}

// Recommendations returns tracks seeded by up to 2 artist ids and 2 track ids.
func (c *SpotifyClient) Recommendations(ctx context.Context, artistIDs, trackIDs []string) ([]models.Song, error) {
	if len(artistIDs) > 2 {
		artistIDs = artistIDs[:2]
	}
	if len(trackIDs) > 2 {
		trackIDs = trackIDs[:2]
	}

	var out struct {
		Tracks []spotifyTrack `json:"tracks"`
	}
	params := url.Values{
		"seed_artists": {strings.Join(artistIDs, ",")},
		"seed_tracks":  {strings.Join(trackIDs, ",")},
		"limit":        {"10"},
	}
	if err := c.get(ctx, "/recommendations", params, &out); err != nil {
		return nil, err
	}
	return tracksToSongs(out.Tracks), nil
}

// RelatedArtists returns up to 10 artists related to artistID.
func (c *SpotifyClient) RelatedArtists(ctx context.Context, artistID string) ([]models.Artist, error) {
	var out struct {
		Artists []spotifyArtist `json:"artists"`
	}
	if err := c.get(ctx, "/artists/"+artistID+"/related-artists", nil, &out); err != nil {
		return nil, err
	}

	items := out.Artists
	if len(items) > 10 {
		items = items[:10]
	}
	artists := make([]models.Artist, 0, len(items))
	for _, a := range items {
		artists = append(artists, models.Artist{
			ID:         a.ID,
			Name:       a.Name,
			Picture:    firstImage(a.Images),
			Popularity: a.Popularity,
		})
	}
	return artists, nil
}

// AlbumTracks returns the first 10 tracks of an album.
func (c *SpotifyClient) AlbumTracks(ctx context.Context, albumID string) ([]models.Song, error) {
	var out struct {
		Items []spotifyTrack `json:"items"`
	}
	params := url.Values{"limit": {"10"}}
	if err := c.get(ctx, "/albums/"+albumID+"/tracks", params, &out); err != nil {
		return nil, err
	}
	return tracksToSongs(out.Items), nil
}

func tracksToSongs(tracks []spotifyTrack) []models.Song {
	songs := make([]models.Song, 0, len(tracks))
	for _, t := range tracks {
		song := models.Song{
			ID:       t.ID,
			Name:     t.Name,
			AlbumArt: firstImage(t.Album.Images),
		}
		if len(t.Artists) > 0 {
			names := make([]string, 0, len(t.Artists))
			for _, a := range t.Artists {
				names = append(names, a.Name)
			}
			song.Artist = strings.Join(names, ", ")
		}
		songs = append(songs, song)
	}
	return songs
}
