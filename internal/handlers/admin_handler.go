package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"IG_DIRECTORY_BACK-END/internal/dto"
	"IG_DIRECTORY_BACK-END/internal/logger"
	"IG_DIRECTORY_BACK-END/internal/middleware"
	"IG_DIRECTORY_BACK-END/internal/services"
	"IG_DIRECTORY_BACK-END/internal/utils"
)

// AdminHandler serves the moderation queue. Every route sits behind AuthMiddleware.
type AdminHandler struct {
	directory Directory
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(directory Directory, log *zap.Logger) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{directory: directory, logger: log}
}

// ListPending returns the review queue
// @Summary List pending profiles
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/admin/profiles/pending [get]
func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.directory.ListPending(r.Context())
	if err != nil {
		respondWithMappedError(w, r, h.logger, err, directoryErrorCases)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewProfileListResponse(profiles, true, 0, 0))
}

// ListApproved returns every approved profile with contact emails
// @Summary List approved profiles (admin view)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/admin/profiles/approved [get]
func (h *AdminHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.directory.ListApproved(r.Context(), services.ListOptions{})
	if err != nil {
		respondWithMappedError(w, r, h.logger, err, directoryErrorCases)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewProfileListResponse(profiles, true, 0, 0))
}

// Stats returns dashboard counters
// @Summary Directory counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.directory.Stats(r.Context())
	if err != nil {
		respondWithMappedError(w, r, h.logger, err, directoryErrorCases)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.StatsResponse{Pending: stats.Pending, Approved: stats.Approved})
}

// Approve publishes a profile
// @Summary Approve a profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed id"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/admin/profiles/{id}/approve [post]
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}
	profile, err := h.directory.Approve(r.Context(), id)
	if err != nil {
		respondWithMappedError(w, r, h.logger, err, directoryErrorCases)
		return
	}
	h.audit(r, "approve", id)
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewProfileResponse(*profile, true))
}

// Reject removes a pending submission
// @Summary Reject a profile
// @Description Rejection deletes the record, so the handle may be submitted again.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed id"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/admin/profiles/{id}/reject [post]
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}
	if err := h.directory.Reject(r.Context(), id); err != nil {
		respondWithMappedError(w, r, h.logger, err, directoryErrorCases)
		return
	}
	h.audit(r, "reject", id)
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Profile rejected"})
}

// Delete removes a profile in any status
// @Summary Delete a profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed id"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/admin/profiles/{id} [delete]
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}
	if err := h.directory.Delete(r.Context(), id); err != nil {
		respondWithMappedError(w, r, h.logger, err, directoryErrorCases)
		return
	}
	h.audit(r, "delete", id)
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Profile deleted"})
}

func (h *AdminHandler) profileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "invalid_id", "profile id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) audit(r *http.Request, action string, id uuid.UUID) {
	fields := []zap.Field{zap.String("action", action), zap.String("profile_id", id.String())}
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		fields = append(fields, zap.String("admin", claims.Username))
	}
	logger.WithContext(r.Context(), h.logger).Info("moderation action", fields...)
}
