package repository

import (
	"context"

	"meetgrid/modules/event/entity"
)

// EventRepositoryInterface defines the persistence contract for events.
// GetByID returns (nil, nil) when the event does not exist.
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	List(ctx context.Context) ([]entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error

	// AddParticipant appends name at the end of the join order.
	AddParticipant(ctx context.Context, eventID string, name string) error

	// SaveSlots replaces the availability sets of the given slots.
	SaveSlots(ctx context.Context, eventID string, slots []entity.TimeSlot) error
}
