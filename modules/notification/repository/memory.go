package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"meetgrid/core/constants"
	"meetgrid/core/params"
	"meetgrid/modules/notification/entity"

	"github.com/google/uuid"
)

type MemoryNotificationRepository struct {
	mu    sync.Mutex
	items []entity.Notification
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{}
}

func (r *MemoryNotificationRepository) Create(_ context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *notification)
	return nil
}

func (r *MemoryNotificationRepository) ClaimPending(_ context.Context, limit int) ([]entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stale := now.Add(-constants.NotifyClaimTimeout)
	claimable := []*entity.Notification{}
	for i := range r.items {
		n := &r.items[i]
		if n.Status == entity.NotificationStatusPending ||
			(n.Status == entity.NotificationStatusSending && n.UpdatedAt.Before(stale)) {
			claimable = append(claimable, n)
		}
	}
	sort.SliceStable(claimable, func(i, j int) bool {
		return claimable[i].CreatedAt.Before(claimable[j].CreatedAt)
	})
	if limit > 0 && len(claimable) > limit {
		claimable = claimable[:limit]
	}

	claimed := make([]entity.Notification, 0, len(claimable))
	for _, n := range claimable {
		n.Status = entity.NotificationStatusSending
		n.UpdatedAt = now
		claimed = append(claimed, *n)
	}
	return claimed, nil
}

func (r *MemoryNotificationRepository) MarkSent(_ context.Context, id uuid.UUID, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := r.find(id); n != nil {
		n.Status = entity.NotificationStatusSent
		n.SentAt = &sentAt
		n.Attempts++
		n.UpdatedAt = sentAt
	}
	return nil
}

func (r *MemoryNotificationRepository) RecordFailure(_ context.Context, id uuid.UUID, attempts int, status entity.NotificationStatus, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := r.find(id); n != nil {
		n.Status = status
		n.Attempts = attempts
		n.LastError = lastError
		n.UpdatedAt = time.Now()
	}
	return nil
}

func (r *MemoryNotificationRepository) List(_ context.Context, params params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []entity.Notification{}
	for i := len(r.items) - 1; i >= 0; i-- {
		n := r.items[i]
		if params.Status == "" || string(n.Status) == params.Status {
			matched = append(matched, n)
		}
	}

	page := []entity.Notification{}
	if start := params.Offset(); start < len(matched) {
		end := min(start+params.PageSize, len(matched))
		page = matched[start:end]
	}

	return &entity.PaginatedNotificationEntity{
		Items:      page,
		TotalItems: len(matched),
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *MemoryNotificationRepository) find(id uuid.UUID) *entity.Notification {
	for i := range r.items {
		if r.items[i].ID == id {
			return &r.items[i]
		}
	}
	return nil
}
