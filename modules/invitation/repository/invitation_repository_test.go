package repository

import (
	"context"
	"testing"
	"time"

	"meetgrid/core/database"
	coreEntity "meetgrid/core/entity"
	"meetgrid/modules/invitation/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*InvitationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInvitationRepository(database.New(sqlx.NewDb(db, "postgres"))), mock
}

var invitationCols = []string{"id", "event_id", "email", "status", "created_at", "updated_at"}

func TestInvitationRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO event_invites`).
		WithArgs(sqlmock.AnyArg(), "ev1", "alice@example.com", "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &entity.EventInvitation{
		EventID:    "ev1",
		Email:      "alice@example.com",
		Status:     entity.InvitationStatusPending,
		BaseEntity: coreEntity.BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT .+ FROM event_invites WHERE id = \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(invitationCols))

	inv, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepositoryExistsByEmailIgnoresCase(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM event_invites WHERE event_id = \$1 AND LOWER\(email\) = LOWER\(\$2\)\)`).
		WithArgs("ev1", "Alice@Example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "ev1", "Alice@Example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepositoryListByEventID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM event_invites\s+WHERE event_id = \$1\s+ORDER BY created_at`).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows(invitationCols).AddRow(id.String(), "ev1", "bob@example.com", "accepted", now, now))

	invitations, err := repo.ListByEventID(context.Background(), "ev1")
	require.NoError(t, err)
	require.Len(t, invitations, 1)
	assert.Equal(t, id, invitations[0].ID)
	assert.Equal(t, entity.InvitationStatusAccepted, invitations[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepositoryCreateDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`INSERT INTO event_invites`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "event_invites_email_idx"})

	err := repo.Create(context.Background(), &entity.EventInvitation{
		EventID:    "ev1",
		Email:      "Alice@Example.com",
		Status:     entity.InvitationStatusPending,
		BaseEntity: coreEntity.BaseEntity{ID: uuid.New()},
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryInvitationRepositoryRejectsDuplicateEmail(t *testing.T) {
	repo := NewMemoryInvitationRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.EventInvitation{
		EventID: "ev1", Email: "alice@example.com", BaseEntity: coreEntity.BaseEntity{ID: uuid.New()},
	}))
	err := repo.Create(ctx, &entity.EventInvitation{
		EventID: "ev1", Email: "ALICE@example.com", BaseEntity: coreEntity.BaseEntity{ID: uuid.New()},
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// same address on another event is fine
	require.NoError(t, repo.Create(ctx, &entity.EventInvitation{
		EventID: "ev2", Email: "alice@example.com", BaseEntity: coreEntity.BaseEntity{ID: uuid.New()},
	}))

	list, err := repo.ListByEventID(ctx, "ev1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
