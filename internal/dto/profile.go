package dto

import (
	"time"

	"IG_DIRECTORY_BACK-END/internal/models"
)

// SubmitProfileRequest is the body of POST /api/profiles
type SubmitProfileRequest struct {
	Handle string `json:"handle" validate:"required,max=30"`
	Email  string `json:"email,omitempty"`
}

// ProfileResponse is a directory entry in API responses
type ProfileResponse struct {
	ID           string     `json:"id"`
	Handle       string     `json:"handle"`
	ProfileImage string     `json:"profile_image"`
	Bio          string     `json:"bio"`
	InstagramURL string     `json:"instagram_url"`
	Email        *string    `json:"email,omitempty"`
	Status       string     `json:"status"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
}

// NewProfileResponse converts a stored profile to its API form.
// The submitter email is only included when withEmail is set.
func NewProfileResponse(p models.Profile, withEmail bool) ProfileResponse {
	resp := ProfileResponse{
		ID:           p.ID.String(),
		Handle:       p.Handle,
		ProfileImage: p.ProfileImage,
		Bio:          p.Bio,
		InstagramURL: p.InstagramURL,
		Status:       string(p.Status),
		SubmittedAt:  p.SubmittedAt,
		ApprovedAt:   p.ApprovedAt,
	}
	if withEmail {
		resp.Email = p.Email
	}
	return resp
}

// ProfileListResponse wraps a page of profiles
type ProfileListResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
	Count    int               `json:"count"`
	Limit    int               `json:"limit,omitempty"`
	Offset   int               `json:"offset,omitempty"`
}

// NewProfileListResponse converts a slice of profiles
func NewProfileListResponse(profiles []models.Profile, withEmail bool, limit, offset int) ProfileListResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, NewProfileResponse(p, withEmail))
	}
	return ProfileListResponse{Profiles: out, Count: len(out), Limit: limit, Offset: offset}
}

// SubmitProfileResponse acknowledges a submission
type SubmitProfileResponse struct {
	Profile ProfileResponse `json:"profile"`
	Message string          `json:"message"`
}

// StatsResponse holds the admin dashboard counters
type StatsResponse struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
}
