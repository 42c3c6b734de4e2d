package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"IG_DIRECTORY_BACK-END/internal/models"
	"IG_DIRECTORY_BACK-END/internal/repository"
)

const profilesTable = "public.profiles_ig_directory"

var profileColumns = []string{
	"id",
	"handle",
	"profile_image",
	"bio",
	"instagram_url",
	"email",
	"status",
	"submitted_at",
	"approved_at",
}

// ProfileRepository stores directory entries in PostgreSQL
type ProfileRepository struct {
	db      DBTX
	builder squirrel.StatementBuilderType
}

// NewProfileRepository constructs a ProfileRepository
func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func returningProfile() string {
	return "RETURNING " + strings.Join(profileColumns, ", ")
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p      models.Profile
		status string
	)
	if err := row.Scan(
		&p.ID,
		&p.Handle,
		&p.ProfileImage,
		&p.Bio,
		&p.InstagramURL,
		&p.Email,
		&status,
		&p.SubmittedAt,
		&p.ApprovedAt,
	); err != nil {
		return nil, err
	}
	p.Status = models.ProfileStatus(status)
	return &p, nil
}

// List returns profiles of filter.Status sorted by filter.OrderBy, newest first
func (r *ProfileRepository) List(ctx context.Context, filter repository.ProfileFilter) ([]models.Profile, error) {
	orderBy := repository.OrderBySubmittedAt
	if filter.OrderBy == repository.OrderByApprovedAt {
		orderBy = repository.OrderByApprovedAt
	}

	q := r.builder.Select(profileColumns...).
		From(profilesTable).
		Where(squirrel.Eq{"status": string(filter.Status)})

	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"handle": pattern},
			squirrel.ILike{"bio": pattern},
		})
	}

	q = q.OrderBy(orderBy + " DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

// Count returns the number of profiles with status
func (r *ProfileRepository) Count(ctx context.Context, status models.ProfileStatus) (int, error) {
	sql, args, err := r.builder.Select("count(*)").
		From(profilesTable).
		Where(squirrel.Eq{"status": string(status)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

// FindByHandle returns the profile with exactly handle, in any status
func (r *ProfileRepository) FindByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	sql, args, err := r.builder.Select(profileColumns...).
		From(profilesTable).
		Where(squirrel.Eq{"handle": handle}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find profile query: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find profile by handle: %w", err)
	}
	return p, nil
}

// Insert persists a new profile; the id is assigned by the database
func (r *ProfileRepository) Insert(ctx context.Context, p models.Profile) (*models.Profile, error) {
	sql, args, err := r.builder.Insert(profilesTable).
		Columns("handle", "profile_image", "bio", "instagram_url", "email", "status", "submitted_at").
		Values(p.Handle, p.ProfileImage, p.Bio, p.InstagramURL, p.Email, string(p.Status), p.SubmittedAt).
		Suffix(returningProfile()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert profile query: %w", err)
	}

	created, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return created, nil
}

// Approve marks the profile approved at the given time
func (r *ProfileRepository) Approve(ctx context.Context, id uuid.UUID, at time.Time) (*models.Profile, error) {
	sql, args, err := r.builder.Update(profilesTable).
		Set("status", string(models.StatusApproved)).
		Set("approved_at", at).
		Where(squirrel.Eq{"id": id}).
		Suffix(returningProfile()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build approve query: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("approve profile: %w", err)
	}
	return p, nil
}

// Delete removes the profile and returns the removed row
func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	sql, args, err := r.builder.Delete(profilesTable).
		Where(squirrel.Eq{"id": id}).
		Suffix(returningProfile()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete query: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("delete profile: %w", err)
	}
	return p, nil
}
