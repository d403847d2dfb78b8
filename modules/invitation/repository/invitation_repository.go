package repository

import (
	"context"
	"database/sql"
	"errors"

	"meetgrid/core/database"
	"meetgrid/core/logger"
	"meetgrid/modules/invitation/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicateEmail is returned by Create when the event already has an
// invite for the same email, compared case-insensitively.
var ErrDuplicateEmail = errors.New("invitation: email already invited")

const uniqueViolation = "23505"

type InvitationRepositoryInterface interface {
	Create(ctx context.Context, invitation *entity.EventInvitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EventInvitation, error)
	ListByEventID(ctx context.Context, eventID string) ([]entity.EventInvitation, error)
	// ExistsByEmail compares emails case-insensitively.
	ExistsByEmail(ctx context.Context, eventID string, email string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.InvitationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type InvitationRepository struct {
	db database.IDatabase
}

func NewInvitationRepository(db database.IDatabase) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *entity.EventInvitation) error {
	query := `
		INSERT INTO event_invites (id, event_id, email, status, created_at, updated_at)
		VALUES (:id, :event_id, :email, :status, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, invitation); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		logger.Error("InvitationRepository:Create:Error:", err)
		return err
	}
	return nil
}

func (r *InvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.EventInvitation, error) {
	var invitation entity.EventInvitation
	query := `SELECT id, event_id, email, status, created_at, updated_at FROM event_invites WHERE id = $1`
	if err := r.db.GetContext(ctx, &invitation, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InvitationRepository:GetByID:Error:", err)
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationRepository) ListByEventID(ctx context.Context, eventID string) ([]entity.EventInvitation, error) {
	invitations := []entity.EventInvitation{}
	query := `
		SELECT id, event_id, email, status, created_at, updated_at
		FROM event_invites
		WHERE event_id = $1
		ORDER BY created_at
	`
	if err := r.db.SelectContext(ctx, &invitations, query, eventID); err != nil {
		logger.Error("InvitationRepository:ListByEventID:Error:", err)
		return nil, err
	}
	return invitations, nil
}

func (r *InvitationRepository) ExistsByEmail(ctx context.Context, eventID string, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_invites WHERE event_id = $1 AND LOWER(email) = LOWER($2))`
	if err := r.db.GetContext(ctx, &exists, query, eventID, email); err != nil {
		logger.Error("InvitationRepository:ExistsByEmail:Error:", err)
		return false, err
	}
	return exists, nil
}

func (r *InvitationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.InvitationStatus) error {
	query := `UPDATE event_invites SET status = $2, updated_at = NOW() WHERE id = $1`
	if err := r.db.ExecContext(ctx, query, id, status); err != nil {
		logger.Error("InvitationRepository:UpdateStatus:Error:", err)
		return err
	}
	return nil
}

func (r *InvitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM event_invites WHERE id = $1`, id); err != nil {
		logger.Error("InvitationRepository:Delete:Error:", err)
		return err
	}
	return nil
}
