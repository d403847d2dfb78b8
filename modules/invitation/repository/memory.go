package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"meetgrid/modules/invitation/entity"

	"github.com/google/uuid"
)

type MemoryInvitationRepository struct {
	mu    sync.Mutex
	items []entity.EventInvitation
}

func NewMemoryInvitationRepository() *MemoryInvitationRepository {
	return &MemoryInvitationRepository{}
}

func (r *MemoryInvitationRepository) Create(_ context.Context, invitation *entity.EventInvitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.items {
		if inv.EventID == invitation.EventID && strings.EqualFold(inv.Email, invitation.Email) {
			return ErrDuplicateEmail
		}
	}
	r.items = append(r.items, *invitation)
	return nil
}

func (r *MemoryInvitationRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.EventInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.items {
		if inv.ID == id {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *MemoryInvitationRepository) ListByEventID(_ context.Context, eventID string) ([]entity.EventInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.EventInvitation{}
	for _, inv := range r.items {
		if inv.EventID == eventID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *MemoryInvitationRepository) ExistsByEmail(_ context.Context, eventID string, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.items {
		if inv.EventID == eventID && strings.EqualFold(inv.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryInvitationRepository) UpdateStatus(_ context.Context, id uuid.UUID, status entity.InvitationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			r.items[i].UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *MemoryInvitationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}
