package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"IG_DIRECTORY_BACK-END/internal/models"
	"IG_DIRECTORY_BACK-END/internal/repository"
)

const adminsTable = "public.admin_users_ig_directory"

// AdminRepository reads admin credential records. It never writes them.
type AdminRepository struct {
	db      DBTX
	builder squirrel.StatementBuilderType
}

// NewAdminRepository constructs an AdminRepository
func NewAdminRepository(db DBTX) *AdminRepository {
	return &AdminRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AdminRepository) findActive(ctx context.Context, where squirrel.Sqlizer) (*models.AdminUser, error) {
	sql, args, err := r.builder.
		Select("id", "username", "email", "password_hash", "role", "is_active", "created_at").
		From(adminsTable).
		Where(where).
		Where(squirrel.Eq{"is_active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build admin query: %w", err)
	}

	var a models.AdminUser
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.IsActive,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load admin user: %w", err)
	}
	return &a, nil
}

// FindActiveByUsername returns the active admin with username
func (r *AdminRepository) FindActiveByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	return r.findActive(ctx, squirrel.Eq{"username": username})
}

// FindActiveByEmail returns the active admin whose email matches, ignoring case
func (r *AdminRepository) FindActiveByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return r.findActive(ctx, squirrel.Expr("lower(email) = lower(?)", email))
}
