package models

import (
	"time"

	"github.com/google/uuid"
)

// ProfileStatus is the moderation state of a directory entry
type ProfileStatus string

const (
	StatusPending  ProfileStatus = "pending"
	StatusApproved ProfileStatus = "approved"
)

// Valid reports whether s is one of the stored statuses
func (s ProfileStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved
}

// Profile represents a row of public.profiles_ig_directory
type Profile struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	Handle       string        `json:"handle" db:"handle"`
	ProfileImage string        `json:"profile_image" db:"profile_image"`
	Bio          string        `json:"bio" db:"bio"`
	InstagramURL string        `json:"instagram_url" db:"instagram_url"`
	Email        *string       `json:"email" db:"email"`
	Status       ProfileStatus `json:"status" db:"status"`
	SubmittedAt  time.Time     `json:"submitted_at" db:"submitted_at"`
	ApprovedAt   *time.Time    `json:"approved_at" db:"approved_at"` // set only when approved
}

// InstagramURL builds the public profile link for a normalized handle
func InstagramURL(handle string) string {
	return "https://instagram.com/" + handle
}
