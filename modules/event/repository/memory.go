package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"meetgrid/modules/event/entity"
)

// MemoryEventRepository keeps events in process memory. It hands out deep
// copies so callers never alias stored state.
type MemoryEventRepository struct {
	mu     sync.RWMutex
	events map[string]*entity.Event
	now    func() time.Time
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{
		events: make(map[string]*entity.Event),
		now:    time.Now,
	}
}

func (r *MemoryEventRepository) Create(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	event.CreatedAt = now
	event.UpdatedAt = now
	r.events[event.ID] = event.Clone()
	return nil
}

func (r *MemoryEventRepository) GetByID(_ context.Context, id string) (*entity.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	return ev.Clone(), nil
}

func (r *MemoryEventRepository) List(_ context.Context) ([]entity.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]entity.Event, 0, len(r.events))
	for _, ev := range r.events {
		c := ev.Clone()
		c.TimeSlots = nil
		events = append(events, *c)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

func (r *MemoryEventRepository) Update(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.events[event.ID]
	if !ok {
		return nil
	}
	stored.Name = event.Name
	stored.Description = event.Description
	stored.Location = event.Location
	stored.Status = event.Status
	stored.FinalDate = cloneString(event.FinalDate)
	stored.FinalTime = cloneString(event.FinalTime)
	stored.UpdatedAt = r.now()
	return nil
}

func (r *MemoryEventRepository) AddParticipant(_ context.Context, eventID string, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.events[eventID]
	if !ok || stored.HasParticipant(name) {
		return nil
	}
	stored.Participants = append(stored.Participants, name)
	return nil
}

func (r *MemoryEventRepository) SaveSlots(_ context.Context, eventID string, slots []entity.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.events[eventID]
	if !ok {
		return nil
	}
	for _, s := range slots {
		for i := range stored.TimeSlots {
			if stored.TimeSlots[i].Key() == s.Key() {
				stored.TimeSlots[i].Available = append([]string{}, s.Available...)
				break
			}
		}
	}
	stored.UpdatedAt = r.now()
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
