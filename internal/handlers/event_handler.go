package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/middleware"
	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/services"
)

type EventHandler struct {
	events *services.EventService
	gemini *services.GeminiClient
	logger *zap.SugaredLogger
}

func NewEventHandler(events *services.EventService, gemini *services.GeminiClient, logger *zap.SugaredLogger) *EventHandler {
	return &EventHandler{events: events, gemini: gemini, logger: logger}
}

// Describe generates (or serves the cached) AI description for an event.
// Event details arrive in the request body since events come from an
// external catalog, not our store.
func (h *EventHandler) Describe(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUserID(r.Context()) == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var event models.EventInfo
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	event.ID = chi.URLParam(r, "eventId")
	if event.ID == "" || event.Name == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Event id and name are required"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	description, err := h.gemini.EventDescription(ctx, event)
	if err != nil {
		h.logger.Errorw("event description failed", "event", event.ID, "error", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Description generation failed"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"description": description}))
}

func (h *EventHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	favorites, err := h.events.ListFavorites(ctx, userID)
	if err != nil {
		h.logger.Errorw("list favorites failed", "user", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load favorites"))
		return
	}
	if favorites == nil {
		favorites = []models.FavoriteEvent{}
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(favorites))
}

func (h *EventHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.AddFavoriteEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	favorite, err := h.events.AddFavorite(ctx, userID, req.Event)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyFavorited) {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Event already favorited"))
			return
		}
		h.logger.Errorw("add favorite failed", "user", userID, "event", req.Event.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save favorite"))
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(favorite))
}

func (h *EventHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing eventId"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.events.RemoveFavorite(ctx, userID, eventID); err != nil {
		if errors.Is(err, services.ErrEventNotFavorited) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Event not on favorites list"))
			return
		}
		h.logger.Errorw("remove favorite failed", "user", userID, "event", eventID, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to remove favorite"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil))
}
