package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/services"
)

// AuthHandler serves the AUTH_MODE=local register/login endpoints that mint
// the HMAC tokens the JWTAuth middleware verifies. Not mounted when Firebase
// auth is active.
type AuthHandler struct {
	auth          *services.LocalAuthService
	jwtSecret     string
	jwtExpiration time.Duration
	logger        *zap.SugaredLogger
}

func NewAuthHandler(auth *services.LocalAuthService, jwtSecret string, jwtExpiration time.Duration, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		logger:        logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
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

	user, err := h.auth.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Email already registered"))
			return
		}
		h.logger.Errorw("register failed", "email", req.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Registration failed"))
		return
	}

	h.respondWithToken(w, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
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

	user, err := h.auth.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrInvalidPassword) {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid email or password"))
			return
		}
		h.logger.Errorw("login failed", "email", req.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Login failed"))
		return
	}

	h.respondWithToken(w, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user *models.UserRecord) {
	claims := jwt.MapClaims{
		"user_id": user.UID,
		"email":   user.Email,
		"exp":     time.Now().Add(h.jwtExpiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		h.logger.Errorw("token signing failed", "user", user.UID, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Token generation failed"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.AuthResponse{
		Token: signed,
		User:  *user,
	}))
}
