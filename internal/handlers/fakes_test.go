package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"IG_DIRECTORY_BACK-END/internal/models"
	"IG_DIRECTORY_BACK-END/internal/services"
)

type fakeDirectory struct {
	profiles  []models.Profile
	stats     services.DirectoryStats
	submitted *models.Profile
	err       error

	lastList   services.ListOptions
	lastSubmit services.SubmitInput
	lastID     uuid.UUID
	rejected   bool
	deleted    bool
}

func (f *fakeDirectory) ListApproved(_ context.Context, opts services.ListOptions) ([]models.Profile, error) {
	f.lastList = opts
	return f.profiles, f.err
}

func (f *fakeDirectory) ListPending(context.Context) ([]models.Profile, error) {
	return f.profiles, f.err
}

func (f *fakeDirectory) Stats(context.Context) (services.DirectoryStats, error) {
	return f.stats, f.err
}

func (f *fakeDirectory) Submit(_ context.Context, in services.SubmitInput) (*models.Profile, error) {
	f.lastSubmit = in
	if f.err != nil {
		return nil, f.err
	}
	return f.submitted, nil
}

func (f *fakeDirectory) Approve(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now().UTC()
	return &models.Profile{ID: id, Handle: "h", Status: models.StatusApproved, ApprovedAt: &now}, nil
}

func (f *fakeDirectory) Reject(_ context.Context, id uuid.UUID) error {
	f.lastID = id
	f.rejected = f.err == nil
	return f.err
}

func (f *fakeDirectory) Delete(_ context.Context, id uuid.UUID) error {
	f.lastID = id
	f.deleted = f.err == nil
	return f.err
}

type fakeIdentity struct {
	session    *services.Session
	err        error
	loggedOut  *services.SessionClaims
	emailLogin string
}

func (f *fakeIdentity) Login(_ context.Context, _, _ string) (*services.Session, error) {
	return f.session, f.err
}

func (f *fakeIdentity) LoginWithEmail(_ context.Context, email string) (*services.Session, error) {
	f.emailLogin = email
	return f.session, f.err
}

func (f *fakeIdentity) Logout(_ context.Context, claims *services.SessionClaims) error {
	f.loggedOut = claims
	return f.err
}

func sampleProfile(handle string) models.Profile {
	email := handle + "@example.com"
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return models.Profile{
		ID:           uuid.New(),
		Handle:       handle,
		ProfileImage: "https://images.example/" + handle + ".jpg",
		Bio:          "bio of " + handle,
		InstagramURL: models.InstagramURL(handle),
		Email:        &email,
		Status:       models.StatusApproved,
		SubmittedAt:  now,
		ApprovedAt:   &now,
	}
}
