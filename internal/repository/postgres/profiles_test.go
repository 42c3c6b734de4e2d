package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IG_DIRECTORY_BACK-END/internal/models"
	"IG_DIRECTORY_BACK-END/internal/repository"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func profileRows() *pgxmock.Rows {
	return pgxmock.NewRows(profileColumns)
}

func TestProfileRepository_ListApprovedWithSearch(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	now := time.Now().UTC()
	email := "art@example.com"
	rows := profileRows().
		AddRow(uuid.New(), "art_creator", "img", "Digital artist", "https://instagram.com/art_creator", &email, "approved", now, &now).
		AddRow(uuid.New(), "artsy", "img", "Paint", "https://instagram.com/artsy", nil, "approved", now, &now)

	mock.ExpectQuery(`SELECT .* FROM public\.profiles_ig_directory WHERE status = \$1 AND \(handle ILIKE \$2 OR bio ILIKE \$3\) ORDER BY approved_at DESC LIMIT 10 OFFSET 5`).
		WithArgs("approved", `%art\_c%`, `%art\_c%`).
		WillReturnRows(rows)

	profiles, err := repo.List(context.Background(), repository.ProfileFilter{
		Status:  models.StatusApproved,
		OrderBy: repository.OrderByApprovedAt,
		Search:  "art_c",
		Limit:   10,
		Offset:  5,
	})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "art_creator", profiles[0].Handle)
	assert.Equal(t, models.StatusApproved, profiles[0].Status)
	require.NotNil(t, profiles[0].Email)
	assert.Equal(t, email, *profiles[0].Email)
	assert.Nil(t, profiles[1].Email)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_ListPendingEmpty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM public\.profiles_ig_directory WHERE status = \$1 ORDER BY submitted_at DESC`).
		WithArgs("pending").
		WillReturnRows(profileRows())

	profiles, err := repo.List(context.Background(), repository.ProfileFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_Count(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	mock.ExpectQuery(`SELECT count\(\*\) FROM public\.profiles_ig_directory WHERE status = \$1`).
		WithArgs("pending").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Count(context.Background(), models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_FindByHandle(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM public\.profiles_ig_directory WHERE handle = \$1 LIMIT 1`).
		WithArgs("newuser123").
		WillReturnRows(profileRows().AddRow(id, "newuser123", "img", "bio", "https://instagram.com/newuser123", nil, "pending", now, nil))

	p, err := repo.FindByHandle(context.Background(), "newuser123")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, models.StatusPending, p.Status)
	assert.Nil(t, p.ApprovedAt)

	mock.ExpectQuery(`SELECT .* FROM public\.profiles_ig_directory WHERE handle = \$1 LIMIT 1`).
		WithArgs("ghost").
		WillReturnRows(profileRows())

	_, err = repo.FindByHandle(context.Background(), "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_Insert(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	now := time.Now().UTC()
	id := uuid.New()
	in := models.Profile{
		Handle:       "newuser123",
		ProfileImage: "img",
		Bio:          "bio",
		InstagramURL: "https://instagram.com/newuser123",
		Status:       models.StatusPending,
		SubmittedAt:  now,
	}

	mock.ExpectQuery(`INSERT INTO public\.profiles_ig_directory \(handle,profile_image,bio,instagram_url,email,status,submitted_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7\) RETURNING id`).
		WithArgs("newuser123", "img", "bio", "https://instagram.com/newuser123", pgxmock.AnyArg(), "pending", pgxmock.AnyArg()).
		WillReturnRows(profileRows().AddRow(id, "newuser123", "img", "bio", "https://instagram.com/newuser123", nil, "pending", now, nil))

	created, err := repo.Insert(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, "newuser123", created.Handle)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_InsertDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	mock.ExpectQuery(`INSERT INTO public\.profiles_ig_directory`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "profiles_ig_directory_handle_key"})

	_, err := repo.Insert(context.Background(), models.Profile{Handle: "taken", Status: models.StatusPending, SubmittedAt: time.Now()})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_Approve(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE public\.profiles_ig_directory SET status = \$1, approved_at = \$2 WHERE id = \$3 RETURNING id`).
		WithArgs("approved", pgxmock.AnyArg(), id.String()).
		WillReturnRows(profileRows().AddRow(id, "h", "img", "bio", "https://instagram.com/h", nil, "approved", now, &now))

	p, err := repo.Approve(context.Background(), id, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, p.Status)
	require.NotNil(t, p.ApprovedAt)

	missing := uuid.New()
	mock.ExpectQuery(`UPDATE public\.profiles_ig_directory`).
		WithArgs("approved", pgxmock.AnyArg(), missing.String()).
		WillReturnRows(profileRows())

	_, err = repo.Approve(context.Background(), missing, now)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	id := uuid.New()
	now := time.Now().UTC()
	email := "owner@example.com"
	mock.ExpectQuery(`DELETE FROM public\.profiles_ig_directory WHERE id = \$1 RETURNING id`).
		WithArgs(id.String()).
		WillReturnRows(profileRows().AddRow(id, "h", "img", "bio", "https://instagram.com/h", &email, "pending", now, nil))

	p, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	require.NotNil(t, p.Email)
	assert.Equal(t, email, *p.Email)

	mock.ExpectQuery(`DELETE FROM public\.profiles_ig_directory`).
		WithArgs(id.String()).
		WillReturnRows(profileRows())

	_, err = repo.Delete(context.Background(), id)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\%\_real%`, containsPattern("100%_real"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}
