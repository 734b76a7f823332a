package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/middleware"
	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/services"
)

type AccountHandler struct {
	accounts *services.AccountService
	surveys  services.SurveyBrowser
	logger   *zap.SugaredLogger
}

// NewAccountHandler creates the handler. surveys may be nil when no survey
// archive is configured; the review endpoint then reports unavailable.
func NewAccountHandler(accounts *services.AccountService, surveys services.SurveyBrowser, logger *zap.SugaredLogger) *AccountHandler {
	return &AccountHandler{accounts: accounts, surveys: surveys, logger: logger}
}

// DeleteAccount records the exit survey and deletes the account.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	if err := h.accounts.DeleteAccount(ctx, userID, &req); err != nil {
		h.logger.Errorw("account deletion failed", "user", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete account"))
		return
	}
	h.logger.Infow("account deletion requested",
		"user", userID,
		"email", middleware.GetUserEmail(r.Context()),
		"reason", req.Reason,
	)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil))
}

// RecentSurveys serves the latest exit-survey responses for ops review.
func (h *AccountHandler) RecentSurveys(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUserID(r.Context()) == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	if h.surveys == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Survey archive not configured"))
		return
	}

	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 200 {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Limit must be between 1 and 200"))
			return
		}
		limit = parsed
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	responses, err := h.surveys.RecentResponses(ctx, limit)
	if err != nil {
		h.logger.Errorw("survey review failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load survey responses"))
		return
	}
	if responses == nil {
		responses = []models.DeleteSurveyResponse{}
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(responses))
}
