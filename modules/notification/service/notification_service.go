package service

import (
	"context"
	"time"

	"meetgrid/core/constants"
	coreEntity "meetgrid/core/entity"
	"meetgrid/core/errors"
	"meetgrid/core/logger"
	"meetgrid/core/mail"
	"meetgrid/core/params"
	"meetgrid/modules/notification/dto"
	"meetgrid/modules/notification/entity"
	"meetgrid/modules/notification/repository"

	"github.com/google/uuid"
)

// DefaultBatch is the number of notifications one dispatch pass sends when
// the caller does not say.
const DefaultBatch = 50

type NotificationService struct {
	repo   repository.NotificationRepositoryInterface
	mailer mail.Mailer
	now    func() time.Time
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, mailer mail.Mailer) *NotificationService {
	return &NotificationService{
		repo:   repo,
		mailer: mailer,
		now:    time.Now,
	}
}

// Create queues an email for the next dispatch pass.
func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	now := s.now()
	notif := &entity.Notification{
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Body:      req.Body,
		Type:      req.Type,
		Data:      entity.JSONB(req.Data),
		Status:    entity.NotificationStatusPending,
		BaseEntity: coreEntity.BaseEntity{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		return err
	}
	logger.Info("NotificationService:Create", "id", notif.ID, "type", notif.Type)
	return nil
}

// DispatchPending claims and sends up to limit pending notifications. A
// failed send goes back to pending for a later pass until it has been
// attempted MaxNotifyAttempts times, after which it is marked failed. Rows
// left claimed by a cancelled pass are picked up again once the claim goes
// stale.
func (s *NotificationService) DispatchPending(ctx context.Context, limit int) (*dto.DispatchResult, error) {
	if limit <= 0 {
		limit = DefaultBatch
	}

	pending, err := s.repo.ClaimPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := &dto.DispatchResult{}
	for _, n := range pending {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		sendErr := s.mailer.Send(ctx, mail.Message{
			To:        n.Recipient,
			Subject:   n.Subject,
			PlainText: n.Body,
		})
		if sendErr == nil {
			if err := s.repo.MarkSent(ctx, n.ID, s.now()); err != nil {
				return result, err
			}
			result.Sent++
			continue
		}

		attempts := n.Attempts + 1
		status := entity.NotificationStatusPending
		if attempts >= constants.MaxNotifyAttempts {
			status = entity.NotificationStatusFailed
			result.Failed++
		} else {
			result.Retrying++
		}
		logger.Warn("NotificationService:DispatchPending:SendFailed", "id", n.ID, "attempts", attempts, "error", sendErr)
		if err := s.repo.RecordFailure(ctx, n.ID, attempts, status, sendErr.Error()); err != nil {
			return result, err
		}
	}

	if len(pending) > 0 {
		logger.Info("NotificationService:DispatchPending:Done",
			"sent", result.Sent, "retrying", result.Retrying, "failed", result.Failed)
	}
	return result, nil
}

func (s *NotificationService) List(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError) {
	result, err := s.repo.List(ctx, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get notifications", err)
	}
	return result, nil
}
