package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser represents a row of public.admin_users_ig_directory.
// The directory never writes these rows.
type AdminUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Hidden from JSON responses
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AdminIdentity is what a session carries about the signed-in admin
type AdminIdentity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// Identity strips credential material from the admin record
func (a AdminUser) Identity() AdminIdentity {
	return AdminIdentity{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
	}
}
