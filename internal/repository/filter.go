package repository

import "IG_DIRECTORY_BACK-END/internal/models"

// ProfileFilter selects profiles of one status.
// OrderBy names the column sorted descending; Limit 0 means no limit.
type ProfileFilter struct {
	Status  models.ProfileStatus
	OrderBy string
	Search  string
	Limit   int
	Offset  int
}

// Sort columns accepted by ProfileFilter.OrderBy
const (
	OrderBySubmittedAt = "submitted_at"
	OrderByApprovedAt  = "approved_at"
)
