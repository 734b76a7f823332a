package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/middleware"
	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/profile"
	"github.com/maxiguillermo1/senior-project/internal/store"
)

type ProfileHandler struct {
	docs    store.DocumentStore
	builder *profile.Builder
	logger  *zap.SugaredLogger
}

func NewProfileHandler(docs store.DocumentStore, logger *zap.SugaredLogger) *ProfileHandler {
	return &ProfileHandler{
		docs:    docs,
		builder: profile.NewBuilder(logger),
		logger:  logger,
	}
}

// GetProfile builds the caller's view model from a one-shot document read.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	h.serveProfile(w, r, userID)
}

// GetPublicProfile builds another user's view model for the match and
// messaging screens.
func (h *ProfileHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUserID(r.Context()) == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	targetID := chi.URLParam(r, "userId")
	if targetID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing userId"))
		return
	}
	h.serveProfile(w, r, targetID)
}

func (h *ProfileHandler) serveProfile(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	snap, err := h.docs.Get(ctx, "users/"+userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		h.logger.Errorw("profile read failed", "user", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.builder.Build(snap)))
}

// StreamProfile serves the live view model over SSE. One Synchronizer is
// mounted per request and torn down when the client disconnects, matching
// the profile screen's mount/unmount lifecycle.
func (h *ProfileHandler) StreamProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Streaming unsupported"))
		return
	}

	sync := profile.NewSynchronizer(h.docs, h.logger)
	if err := sync.Start(r.Context(), userID); err != nil {
		if errors.Is(err, profile.ErrUnauthenticated) {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
			return
		}
		h.logger.Errorw("profile stream start failed", "user", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to open profile stream"))
		return
	}
	defer sync.Stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case vm, open := <-sync.Updates():
			if !open {
				return
			}
			payload, err := json.Marshal(vm)
			if err != nil {
				h.logger.Errorw("profile stream encode failed", "user", userID, "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
