package repository

import (
	"context"
	"sort"
	"time"

	"meetgrid/core/constants"
	"meetgrid/core/database"
	"meetgrid/core/logger"
	"meetgrid/core/params"
	"meetgrid/modules/notification/entity"

	"github.com/google/uuid"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *entity.Notification) error
	// ClaimPending moves up to limit of the oldest pending notifications to
	// sending and returns them, oldest first. A notification claimed longer
	// than constants.NotifyClaimTimeout ago is claimable again. Concurrent
	// callers never receive the same row.
	ClaimPending(ctx context.Context, limit int) ([]entity.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	RecordFailure(ctx context.Context, id uuid.UUID, attempts int, status entity.NotificationStatus, lastError string) error
	List(ctx context.Context, params params.QueryParams) (*entity.PaginatedNotificationEntity, error)
}

type NotificationRepository struct {
	db database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, recipient, subject, body, type, data, status, attempts, last_error,
	sent_at, created_at, updated_at`

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient, subject, body, type, data, status, attempts, last_error, created_at, updated_at)
		VALUES (:id, :recipient, :subject, :body, :type, :data, :status, :attempts, :last_error, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		logger.Error("NotificationRepository:Create:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) ClaimPending(ctx context.Context, limit int) ([]entity.Notification, error) {
	query := `UPDATE notifications SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM notifications
			WHERE status = $2 OR (status = $1 AND updated_at < NOW() - make_interval(secs => $3))
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + notificationColumns

	var notifications []entity.Notification
	err := r.db.SelectContext(ctx, &notifications, query,
		entity.NotificationStatusSending, entity.NotificationStatusPending,
		int(constants.NotifyClaimTimeout.Seconds()), limit)
	if err != nil {
		logger.Error("NotificationRepository:ClaimPending:Error:", err)
		return nil, err
	}
	// RETURNING does not keep the subquery order
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.Before(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `UPDATE notifications SET status = $2, sent_at = $3, attempts = attempts + 1, updated_at = NOW() WHERE id = $1`
	if err := r.db.ExecContext(ctx, query, id, entity.NotificationStatusSent, sentAt); err != nil {
		logger.Error("NotificationRepository:MarkSent:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) RecordFailure(ctx context.Context, id uuid.UUID, attempts int, status entity.NotificationStatus, lastError string) error {
	query := `UPDATE notifications SET status = $2, attempts = $3, last_error = $4, updated_at = NOW() WHERE id = $1`
	if err := r.db.ExecContext(ctx, query, id, status, attempts, lastError); err != nil {
		logger.Error("NotificationRepository:RecordFailure:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, params params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	baseQuery := `FROM notifications WHERE ($1 = '' OR status = $1)`

	var totalItems int
	err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, params.Status)
	if err != nil {
		logger.Error("NotificationRepository:List:Count:Error:", err)
		return nil, err
	}

	query := `SELECT ` + notificationColumns + ` ` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	notifications := []entity.Notification{}
	err = r.db.SelectContext(ctx, &notifications, query, params.Status, params.PageSize, params.Offset())
	if err != nil {
		logger.Error("NotificationRepository:List:Select:Error:", err)
		return nil, err
	}

	return &entity.PaginatedNotificationEntity{
		Items:      notifications,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}
