package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"IG_DIRECTORY_BACK-END/internal/dto"
	"IG_DIRECTORY_BACK-END/internal/middleware"
	"IG_DIRECTORY_BACK-END/internal/services"
	"IG_DIRECTORY_BACK-END/internal/utils"
)

// Identity is the admin identity service as seen by the HTTP layer
type Identity interface {
	Login(ctx context.Context, username, password string) (*services.Session, error)
	LoginWithEmail(ctx context.Context, email string) (*services.Session, error)
	Logout(ctx context.Context, claims *services.SessionClaims) error
}

// AuthHandler handles admin session requests
type AuthHandler struct {
	identity Identity
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(identity Identity, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{identity: identity, logger: log}
}

func newAuthResponse(s *services.Session) dto.AuthResponse {
	return dto.AuthResponse{
		Admin:     dto.NewAdminResponse(s.Admin),
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

// Login handles admin login
// @Summary Admin login
// @Description Authenticate an active admin with username and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse "Too many attempts"
// @Failure 503 {object} dto.ErrorResponse "Service unavailable"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Username and password are required")
		return
	}

	session, err := h.identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithMappedError(w, r, h.logger, err, authErrorCases)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, newAuthResponse(session))
}

// Logout ends the current admin session
// @Summary Admin logout
// @Description Revokes the presented session token
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "No active session")
		return
	}
	if err := h.identity.Logout(r.Context(), claims); err != nil {
		respondWithMappedError(w, r, h.logger, err, authErrorCases)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// Me returns the identity behind the current session
// @Summary Current admin
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AdminResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "No active session")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewAdminResponse(claims.Identity()))
}
