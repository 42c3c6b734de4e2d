package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"IG_DIRECTORY_BACK-END/internal/models"
	"IG_DIRECTORY_BACK-END/internal/repository"
)

const (
	MaxHandleLength = 30
	MaxBioLength    = 200
)

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)

// ProfileStore is the record store behind the directory
type ProfileStore interface {
	List(ctx context.Context, filter repository.ProfileFilter) ([]models.Profile, error)
	Count(ctx context.Context, status models.ProfileStatus) (int, error)
	FindByHandle(ctx context.Context, handle string) (*models.Profile, error)
	Insert(ctx context.Context, p models.Profile) (*models.Profile, error)
	Approve(ctx context.Context, id uuid.UUID, at time.Time) (*models.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Outcome labels reported to DirectoryMetrics
const (
	OutcomeCreated      = "created"
	OutcomeInvalid      = "invalid"
	OutcomeDuplicate    = "duplicate"
	OutcomeLookupFailed = "lookup_failed"
	OutcomeRejected     = "inappropriate"
	OutcomeError        = "error"
)

// DirectoryMetrics receives submission and moderation counters
type DirectoryMetrics interface {
	SubmissionObserved(outcome string)
	ModerationObserved(action ModerationAction)
}

type nopMetrics struct{}

func (nopMetrics) SubmissionObserved(string)           {}
func (nopMetrics) ModerationObserved(ModerationAction) {}

// SubmitInput is a visitor's request to be listed
type SubmitInput struct {
	Handle string
	Email  string
}

// ListOptions narrows the approved listing
type ListOptions struct {
	Search string
	Limit  int
	Offset int
}

// DirectoryStats holds dashboard counters
type DirectoryStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
}

// DirectoryService validates submissions and applies moderation decisions
type DirectoryService struct {
	store    ProfileStore
	lookup   ProfileLookup
	filter   *ContentFilter
	notifier Notifier
	metrics  DirectoryMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewDirectoryService wires the directory. filter may be nil for the default word list.
func NewDirectoryService(store ProfileStore, lookup ProfileLookup, filter *ContentFilter, logger *zap.Logger) *DirectoryService {
	if filter == nil {
		filter = NewContentFilter(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		store:    store,
		lookup:   lookup,
		filter:   filter,
		notifier: NopNotifier{},
		metrics:  nopMetrics{},
		logger:   logger,
		now:      time.Now,
	}
}

// WithNotifier sets the moderation notifier
func (s *DirectoryService) WithNotifier(n Notifier) *DirectoryService {
	if n != nil {
		s.notifier = n
	}
	return s
}

// WithMetrics sets the metrics sink
func (s *DirectoryService) WithMetrics(m DirectoryMetrics) *DirectoryService {
	if m != nil {
		s.metrics = m
	}
	return s
}

// WithClock overrides the time source
func (s *DirectoryService) WithClock(now func() time.Time) *DirectoryService {
	if now != nil {
		s.now = now
	}
	return s
}

// NormalizeHandle trims whitespace and one leading '@'
func NormalizeHandle(raw string) string {
	h := strings.TrimSpace(raw)
	h = strings.TrimPrefix(h, "@")
	return strings.TrimSpace(h)
}

// ValidateHandle checks a normalized handle
func ValidateHandle(handle string) error {
	if handle == "" {
		return fmt.Errorf("%w: handle is required", ErrInvalidHandle)
	}
	if len(handle) > MaxHandleLength {
		return fmt.Errorf("%w: handle must be at most %d characters", ErrInvalidHandle, MaxHandleLength)
	}
	if !handlePattern.MatchString(handle) {
		return fmt.Errorf("%w: only letters, numbers, periods and underscores are allowed", ErrInvalidHandle)
	}
	return nil
}

// TruncateBio cuts s to MaxBioLength characters
func TruncateBio(s string) string {
	r := []rune(s)
	if len(r) <= MaxBioLength {
		return s
	}
	return string(r[:MaxBioLength])
}

// ListApproved returns approved profiles, newest approval first
func (s *DirectoryService) ListApproved(ctx context.Context, opts ListOptions) ([]models.Profile, error) {
	if opts.Limit < 0 {
		opts.Limit = 0
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	profiles, err := s.store.List(ctx, repository.ProfileFilter{
		Status:  models.StatusApproved,
		OrderBy: repository.OrderByApprovedAt,
		Search:  strings.TrimSpace(opts.Search),
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	})
	if err != nil {
		s.logger.Error("fetch approved profiles", zap.Error(err))
		return nil, fmt.Errorf("%w: failed to fetch profiles", ErrBackendUnavailable)
	}
	return profiles, nil
}

// ListPending returns pending profiles, newest submission first
func (s *DirectoryService) ListPending(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.store.List(ctx, repository.ProfileFilter{
		Status:  models.StatusPending,
		OrderBy: repository.OrderBySubmittedAt,
	})
	if err != nil {
		s.logger.Error("fetch pending profiles", zap.Error(err))
		return nil, fmt.Errorf("%w: failed to fetch pending profiles", ErrBackendUnavailable)
	}
	return profiles, nil
}

// Stats counts pending and approved profiles
func (s *DirectoryService) Stats(ctx context.Context) (DirectoryStats, error) {
	pending, err := s.store.Count(ctx, models.StatusPending)
	if err != nil {
		s.logger.Error("count pending profiles", zap.Error(err))
		return DirectoryStats{}, fmt.Errorf("%w: failed to count profiles", ErrBackendUnavailable)
	}
	approved, err := s.store.Count(ctx, models.StatusApproved)
	if err != nil {
		s.logger.Error("count approved profiles", zap.Error(err))
		return DirectoryStats{}, fmt.Errorf("%w: failed to count profiles", ErrBackendUnavailable)
	}
	return DirectoryStats{Pending: pending, Approved: approved}, nil
}

// Submit adds a pending profile for handle. Nothing is written unless every check passes.
func (s *DirectoryService) Submit(ctx context.Context, in SubmitInput) (*models.Profile, error) {
	handle := NormalizeHandle(in.Handle)
	if err := ValidateHandle(handle); err != nil {
		s.metrics.SubmissionObserved(OutcomeInvalid)
		return nil, err
	}

	var email *string
	if e := strings.TrimSpace(in.Email); e != "" {
		addr, err := mail.ParseAddress(e)
		if err != nil {
			s.metrics.SubmissionObserved(OutcomeInvalid)
			return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, e)
		}
		// stored without any display name
		email = &addr.Address
	}

	existing, err := s.store.FindByHandle(ctx, handle)
	switch {
	case err == nil && existing != nil:
		s.metrics.SubmissionObserved(OutcomeDuplicate)
		return nil, ErrDuplicateHandle
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		s.logger.Error("check existing handle", zap.String("handle", handle), zap.Error(err))
		s.metrics.SubmissionObserved(OutcomeError)
		return nil, fmt.Errorf("%w: failed to check handle", ErrBackendUnavailable)
	}

	data, err := s.lookup.FetchProfile(ctx, handle)
	if err != nil {
		s.logger.Warn("instagram lookup failed", zap.String("handle", handle), zap.Error(err))
		s.metrics.SubmissionObserved(OutcomeLookupFailed)
		if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrNotFoundRemotely) || errors.Is(err, ErrLookupFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	if s.filter.Flagged(data.Bio) || s.filter.Flagged(handle) {
		s.metrics.SubmissionObserved(OutcomeRejected)
		return nil, ErrInappropriateContent
	}

	created, err := s.store.Insert(ctx, models.Profile{
		Handle:       handle,
		ProfileImage: data.ProfileImage,
		Bio:          TruncateBio(data.Bio),
		InstagramURL: models.InstagramURL(handle),
		Email:        email,
		Status:       models.StatusPending,
		SubmittedAt:  s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.SubmissionObserved(OutcomeDuplicate)
			return nil, ErrDuplicateHandle
		}
		s.logger.Error("insert profile", zap.String("handle", handle), zap.Error(err))
		s.metrics.SubmissionObserved(OutcomeError)
		return nil, fmt.Errorf("%w: failed to submit profile", ErrBackendUnavailable)
	}

	s.metrics.SubmissionObserved(OutcomeCreated)
	s.logger.Info("profile submitted", zap.String("handle", created.Handle), zap.String("id", created.ID.String()))
	return created, nil
}

// Approve publishes a profile
func (s *DirectoryService) Approve(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := s.store.Approve(ctx, id, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("approve profile", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to approve profile", ErrBackendUnavailable)
	}
	s.metrics.ModerationObserved(ActionApproved)
	s.notify(ctx, ActionApproved, *p)
	return p, nil
}

// Reject removes a pending submission, freeing its handle
func (s *DirectoryService) Reject(ctx context.Context, id uuid.UUID) error {
	return s.remove(ctx, id, ActionRejected)
}

// Delete removes a profile regardless of status
func (s *DirectoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.remove(ctx, id, ActionDeleted)
}

func (s *DirectoryService) remove(ctx context.Context, id uuid.UUID, action ModerationAction) error {
	p, err := s.store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("delete profile", zap.String("id", id.String()), zap.String("action", string(action)), zap.Error(err))
		return fmt.Errorf("%w: failed to %s profile", ErrBackendUnavailable, action.verb())
	}
	s.metrics.ModerationObserved(action)
	s.notify(ctx, action, *p)
	return nil
}

func (s *DirectoryService) notify(ctx context.Context, action ModerationAction, p models.Profile) {
	if err := s.notifier.Notify(ctx, ModerationEvent{Action: action, Profile: p}); err != nil {
		s.logger.Warn("moderation notification failed",
			zap.String("id", p.ID.String()),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}
