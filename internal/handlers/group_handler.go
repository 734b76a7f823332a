package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/middleware"
	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/services"
)

type GroupHandler struct {
	groups *services.GroupService
	logger *zap.SugaredLogger
}

func NewGroupHandler(groups *services.GroupService, logger *zap.SugaredLogger) *GroupHandler {
	return &GroupHandler{groups: groups, logger: logger}
}

func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	groups, err := h.groups.ListGroups(ctx, userID)
	if err != nil {
		h.logger.Errorw("list groups failed", "user", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load groups"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(groups))
}

func (h *GroupHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	groupID := chi.URLParam(r, "groupId")

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.groups.LeaveGroup(ctx, userID, groupID); err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Group not found"))
		case errors.Is(err, services.ErrNotGroupMember):
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Not a member of this group"))
		default:
			h.logger.Errorw("leave group failed", "user", userID, "group", groupID, "error", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to leave group"))
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil))
}

func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	groupID := chi.URLParam(r, "groupId")

	ctx, cancel := contextWithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := h.groups.DeleteGroup(ctx, userID, groupID); err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Group not found"))
		case errors.Is(err, services.ErrNotGroupOwner):
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Only the group creator can delete it"))
		default:
			h.logger.Errorw("delete group failed", "user", userID, "group", groupID, "error", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete group"))
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil))
}
