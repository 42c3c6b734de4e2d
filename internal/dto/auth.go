package dto

import (
	"time"

	"IG_DIRECTORY_BACK-END/internal/models"
)

// LoginRequest represents the request payload for admin login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Admin     AdminResponse `json:"admin"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// AdminResponse represents the signed-in admin identity in API responses
type AdminResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// NewAdminResponse converts an identity to its API form
func NewAdminResponse(a models.AdminIdentity) AdminResponse {
	return AdminResponse{
		ID:       a.ID.String(),
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
	}
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// GoogleLoginResponse carries the consent URL for Google sign-in
type GoogleLoginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// GoogleUserInfo is the part of the Google account that admin sign-in relies on
type GoogleUserInfo struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified_email"`
}
