package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/services"
)

// MusicHandler proxies catalog search so the Spotify credentials never
// reach the clients.
type MusicHandler struct {
	spotify *services.SpotifyClient
	logger  *zap.SugaredLogger
}

func NewMusicHandler(spotify *services.SpotifyClient, logger *zap.SugaredLogger) *MusicHandler {
	return &MusicHandler{spotify: spotify, logger: logger}
}

func (h *MusicHandler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, "artists")
}

func (h *MusicHandler) SearchAlbums(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, "albums")
}

func (h *MusicHandler) SearchTracks(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, "tracks")
}

func (h *MusicHandler) search(w http.ResponseWriter, r *http.Request, kind string) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing query"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var (
		result interface{}
		err    error
	)
	switch kind {
	case "artists":
		result, err = h.spotify.SearchArtists(ctx, query)
	case "albums":
		result, err = h.spotify.SearchAlbums(ctx, query)
	case "tracks":
		result, err = h.spotify.SearchTracks(ctx, query)
	}
	if err != nil {
		h.logger.Errorw("music search failed", "kind", kind, "query", query, "error", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Music search failed"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}

// Recommendations returns tracks seeded by the artist and track ids the
// caller picked on their profile.
func (h *MusicHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	artistIDs := splitIDs(r.URL.Query().Get("artists"))
	trackIDs := splitIDs(r.URL.Query().Get("tracks"))
	if len(artistIDs) == 0 && len(trackIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("At least one seed artist or track is required"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	songs, err := h.spotify.Recommendations(ctx, artistIDs, trackIDs)
	if err != nil {
		h.logger.Errorw("recommendations failed", "artists", artistIDs, "tracks", trackIDs, "error", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Recommendations lookup failed"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(songs))
}

// splitIDs parses a comma-separated id list, dropping empty entries.
func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// RelatedArtists returns artists related to the one in the path.
func (h *MusicHandler) RelatedArtists(w http.ResponseWriter, r *http.Request) {
	artistID := chi.URLParam(r, "artistId")
	if artistID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing artistId"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	artists, err := h.spotify.RelatedArtists(ctx, artistID)
	if err != nil {
		h.logger.Errorw("related artists failed", "artist", artistID, "error", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Related artists lookup failed"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(artists))
}

// AlbumTracks returns the tracks for an album.
func (h *MusicHandler) AlbumTracks(w http.ResponseWriter, r *http.Request) {
	albumID := chi.URLParam(r, "albumId")
	if albumID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing albumId"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tracks, err := h.spotify.AlbumTracks(ctx, albumID)
	if err != nil {
		h.logger.Errorw("album tracks failed", "album", albumID, "error", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Album tracks lookup failed"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(tracks))
}
