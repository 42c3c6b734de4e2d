package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"IG_DIRECTORY_BACK-END/internal/logger"
	"IG_DIRECTORY_BACK-END/internal/services"
	"IG_DIRECTORY_BACK-END/internal/utils"
)

// ErrorCase maps a sentinel error to an HTTP status code and error label.
// An empty Message echoes the error text, which carries validation detail.
type ErrorCase struct {
	Err     error
	Status  int
	Code    string
	Message string
}

// directoryErrorCases covers every error the directory service returns
var directoryErrorCases = []ErrorCase{
	{Err: services.ErrInvalidHandle, Status: http.StatusBadRequest, Code: "invalid_handle"},
	{Err: services.ErrInvalidEmail, Status: http.StatusBadRequest, Code: "invalid_email"},
	{Err: services.ErrDuplicateHandle, Status: http.StatusConflict, Code: "duplicate_handle"},
	{Err: services.ErrInappropriateContent, Status: http.StatusUnprocessableEntity, Code: "inappropriate_content"},
	{Err: services.ErrNotFound, Status: http.StatusNotFound, Code: "not_found"},
	{Err: services.ErrNotFoundRemotely, Status: http.StatusNotFound, Code: "instagram_profile_not_found"},
	{Err: services.ErrRateLimited, Status: http.StatusServiceUnavailable, Code: "lookup_rate_limited", Message: "Instagram lookup is busy, please try again later"},
	{Err: services.ErrLookupFailed, Status: http.StatusBadGateway, Code: "lookup_failed", Message: "Failed to fetch Instagram data"},
	{Err: services.ErrBackendUnavailable, Status: http.StatusServiceUnavailable, Code: "backend_unavailable", Message: "Service temporarily unavailable"},
}

// authErrorCases covers the identity service
var authErrorCases = []ErrorCase{
	{Err: services.ErrInvalidCredentials, Status: http.StatusUnauthorized, Code: "invalid_credentials"},
	{Err: services.ErrInvalidToken, Status: http.StatusUnauthorized, Code: "invalid_token"},
	{Err: services.ErrBackendUnavailable, Status: http.StatusServiceUnavailable, Code: "backend_unavailable", Message: "Service temporarily unavailable"},
}

// respondWithMappedError resolves err against cases or falls back to a generic 500
func respondWithMappedError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, cases []ErrorCase) {
	for _, cs := range cases {
		if cs.Err == nil || !errors.Is(err, cs.Err) {
			continue
		}
		msg := cs.Message
		if msg == "" {
			msg = err.Error()
		}
		utils.WriteErrorResponse(w, cs.Status, cs.Code, msg)
		return
	}

	logger.WithContext(r.Context(), log).Error("unmapped handler error", zap.Error(err))
	utils.WriteErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}
