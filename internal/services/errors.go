package services

import "errors"

// Error kinds surfaced by the directory and identity services.
// Handlers map them to HTTP statuses with errors.Is.
var (
	ErrInvalidHandle        = errors.New("invalid instagram handle")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrDuplicateHandle      = errors.New("this Instagram handle has already been submitted")
	ErrLookupFailed         = errors.New("failed to fetch Instagram data")
	ErrRateLimited          = errors.New("instagram data provider rate limited the request")
	ErrNotFoundRemotely     = errors.New("instagram profile not found")
	ErrInappropriateContent = errors.New("profile contains inappropriate content")
	ErrNotFound             = errors.New("profile not found")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInvalidToken         = errors.New("invalid or expired session")
	ErrBackendUnavailable   = errors.New("backend unavailable")
)
