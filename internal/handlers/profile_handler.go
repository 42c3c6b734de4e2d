package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"IG_DIRECTORY_BACK-END/internal/dto"
	"IG_DIRECTORY_BACK-END/internal/models"
	"IG_DIRECTORY_BACK-END/internal/services"
	"IG_DIRECTORY_BACK-END/internal/utils"
)

// MaxPageSize caps the limit query parameter of the public listing
const MaxPageSize = 100

// Directory is the directory service as seen by the HTTP layer
type Directory interface {
	ListApproved(ctx context.Context, opts services.ListOptions) ([]models.Profile, error)
	ListPending(ctx context.Context) ([]models.Profile, error)
	Stats(ctx context.Context) (services.DirectoryStats, error)
	Submit(ctx context.Context, in services.SubmitInput) (*models.Profile, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Reject(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileHandler serves the public directory
type ProfileHandler struct {
	directory Directory
	logger    *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler instance
func NewProfileHandler(directory Directory, log *zap.Logger) *ProfileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileHandler{directory: directory, logger: log}
}

// ListProfiles returns approved profiles
// @Summary List approved profiles
// @Description Approved directory entries, newest approval first. search matches handle or bio.
// @Tags profiles
// @Produce json
// @Param search query string false "Case-insensitive substring of handle or bio"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Number of entries to skip"
// @Success 200 {object} dto.ProfileListResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid paging parameters"
// @Failure 503 {object} dto.ErrorResponse "Record store unavailable"
// @Router /api/profiles [get]
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseNonNegative(q.Get("limit"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
		return
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset, err := parseNonNegative(q.Get("offset"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "invalid_offset", "offset must be a non-negative integer")
		return
	}

	profiles, err := h.directory.ListApproved(r.Context(), services.ListOptions{
		Search: q.Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondWithMappedError(w, r, h.logger, err, directoryErrorCases)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewProfileListResponse(profiles, false, limit, offset))
}

// SubmitProfile queues a handle for review
// @Summary Submit a profile
// @Description Validates the handle, fetches public Instagram data, screens it, and stores a pending entry.
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body dto.SubmitProfileRequest true "Handle and optional contact email"
// @Success 201 {object} dto.SubmitProfileResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid handle or email"
// @Failure 404 {object} dto.ErrorResponse "Instagram profile not found"
// @Failure 409 {object} dto.ErrorResponse "Handle already submitted"
// @Failure 422 {object} dto.ErrorResponse "Inappropriate content"
// @Failure 429 {object} dto.ErrorResponse "Too many submissions"
// @Failure 502 {object} dto.ErrorResponse "Instagram lookup failed"
// @Failure 503 {object} dto.ErrorResponse "Service unavailable"
// @Router /api/profiles [post]
func (h *ProfileHandler) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitProfileRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	profile, err := h.directory.Submit(r.Context(), services.SubmitInput{Handle: req.Handle, Email: req.Email})
	if err != nil {
		respondWithMappedError(w, r, h.logger, err, directoryErrorCases)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.SubmitProfileResponse{
		Profile: dto.NewProfileResponse(*profile, false),
		Message: "Profile submitted successfully! It will appear after admin approval.",
	})
}

func parseNonNegative(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
