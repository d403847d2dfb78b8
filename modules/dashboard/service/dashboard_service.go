package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"meetgrid/core/constants"
	"meetgrid/core/errors"
	"meetgrid/core/logger"
	"meetgrid/modules/dashboard/dto"
	"meetgrid/modules/dashboard/entity"
	"meetgrid/modules/dashboard/mapper"
	"meetgrid/modules/dashboard/repository"
	"meetgrid/modules/event/availability"
	eventEntity "meetgrid/modules/event/entity"
)

// EventLister is the read side of the event store the dashboard needs.
type EventLister interface {
	GetByID(ctx context.Context, id string) (*eventEntity.Event, error)
	List(ctx context.Context) ([]eventEntity.Event, error)
}

type DashboardService struct {
	events EventLister
	state  repository.StateRepositoryInterface
	loc    *time.Location
	now    func() time.Time

	// guards read-modify-write of the state document
	mu sync.Mutex
}

func NewDashboardService(events EventLister, state repository.StateRepositoryInterface, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		events: events,
		state:  state,
		loc:    loc,
		now:    time.Now,
	}
}

// ListEvents returns the visible events with overrides applied, filtered by
// status and a case-insensitive name search. Counts cover every visible event
// regardless of the filter.
func (s *DashboardService) ListEvents(ctx context.Context, query *dto.ListEventsQuery) (*dto.DashboardListResponse, *errors.AppError) {
	filter := entity.DashboardStatus(strings.ToLower(strings.TrimSpace(query.Status)))
	switch filter {
	case "", "all":
		filter = ""
	case entity.StatusUpcoming, entity.StatusCompleted, entity.StatusCancelled:
	default:
		return nil, errors.NewValidationError("Validation failed", []errors.FieldError{
			{Field: "status", Message: "Status must be all, upcoming, completed or cancelled"},
		})
	}
	search := strings.ToLower(strings.TrimSpace(query.Q))

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}
	state, err := s.state.Load(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load dashboard state", err)
	}

	today := s.now().In(s.loc).Format(constants.DateLayout)
	resp := &dto.DashboardListResponse{Events: []dto.DashboardEventResponse{}}
	for i := range events {
		ev := &events[i]
		if state.IsRemoved(ev.ID) {
			resp.Counts.Hidden++
			continue
		}

		var override *entity.EventOverride
		if o, ok := state.Edited[ev.ID]; ok {
			override = &o
		}
		row := mapper.ToDashboardEvent(ev, override)
		status := deriveStatus(ev, override, today)
		row.Status = string(status)

		resp.Counts.Total++
		switch status {
		case entity.StatusUpcoming:
			resp.Counts.Upcoming++
		case entity.StatusCompleted:
			resp.Counts.Completed++
		}

		if filter != "" && status != filter {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(row.Name), search) {
			continue
		}
		resp.Events = append(resp.Events, row)
	}

	return resp, nil
}

// Hide removes an event from the dashboard without touching the event itself.
func (s *DashboardService) Hide(ctx context.Context, id string) *errors.AppError {
	if _, appErr := s.loadEvent(ctx, id); appErr != nil {
		return appErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.state.Load(ctx)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load dashboard state", err)
	}
	if state.IsRemoved(id) {
		return nil
	}
	if err := s.state.SaveRemoved(ctx, append(state.Removed, id)); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to hide event", err)
	}
	logger.Info("DashboardService:Hide:Success", "event_id", id)
	return nil
}

func (s *DashboardService) Restore(ctx context.Context, id string) *errors.AppError {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.state.Load(ctx)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load dashboard state", err)
	}
	if !state.IsRemoved(id) {
		return nil
	}
	kept := make([]string, 0, len(state.Removed))
	for _, r := range state.Removed {
		if r != id {
			kept = append(kept, r)
		}
	}
	if err := s.state.SaveRemoved(ctx, kept); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to restore event", err)
	}
	logger.Info("DashboardService:Restore:Success", "event_id", id)
	return nil
}

// SetOverride merges req into the stored override for id.
func (s *DashboardService) SetOverride(ctx context.Context, id string, req *dto.OverrideRequest) (*dto.DashboardEventResponse, *errors.AppError) {
	if fields := validateOverride(req); len(fields) > 0 {
		return nil, errors.NewValidationError("Validation failed", fields)
	}

	ev, appErr := s.loadEvent(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.state.Load(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load dashboard state", err)
	}

	incoming := mapper.ToOverrideEntity(req)
	merged := state.Edited[id]
	if incoming.Name != nil {
		name := strings.TrimSpace(*incoming.Name)
		merged.Name = &name
	}
	if incoming.Date != nil {
		merged.Date = incoming.Date
	}
	if incoming.Time != nil {
		merged.Time = incoming.Time
	}
	if incoming.Participants != nil {
		merged.Participants = incoming.Participants
	}
	state.Edited[id] = merged

	if err := s.state.SaveEdited(ctx, state.Edited); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save override", err)
	}
	logger.Info("DashboardService:SetOverride:Success", "event_id", id)

	row := mapper.ToDashboardEvent(ev, &merged)
	row.Status = string(deriveStatus(ev, &merged, s.now().In(s.loc).Format(constants.DateLayout)))
	return &row, nil
}

func (s *DashboardService) ClearOverride(ctx context.Context, id string) *errors.AppError {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.state.Load(ctx)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load dashboard state", err)
	}
	if _, ok := state.Edited[id]; !ok {
		return nil
	}
	delete(state.Edited, id)
	if err := s.state.SaveEdited(ctx, state.Edited); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to clear override", err)
	}
	logger.Info("DashboardService:ClearOverride:Success", "event_id", id)
	return nil
}

func (s *DashboardService) loadEvent(ctx context.Context, id string) (*eventEntity.Event, *errors.AppError) {
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if ev == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return ev, nil
}

// deriveStatus: cancelled wins; an event is completed once every date it
// covers is before today. A scheduled event covers only its final date and an
// overridden date replaces both.
func deriveStatus(ev *eventEntity.Event, override *entity.EventOverride, today string) entity.DashboardStatus {
	if ev.Status == eventEntity.EventStatusCancelled {
		return entity.StatusCancelled
	}

	dates := []string(ev.Dates)
	switch {
	case override != nil && override.Date != nil:
		dates = []string{*override.Date}
	case ev.FinalDate != nil:
		dates = []string{*ev.FinalDate}
	}
	if len(dates) == 0 {
		return entity.StatusUpcoming
	}
	for _, d := range dates {
		if d >= today {
			return entity.StatusUpcoming
		}
	}
	return entity.StatusCompleted
}

func validateOverride(req *dto.OverrideRequest) []errors.FieldError {
	if mapper.ToOverrideEntity(req).IsEmpty() {
		return []errors.FieldError{{Field: "override", Message: "Nothing to update"}}
	}

	var fields []errors.FieldError
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		fields = append(fields, errors.FieldError{Field: "name", Message: "Event name is required"})
	}
	if req.Date != nil {
		if _, err := time.Parse(constants.DateLayout, *req.Date); err != nil {
			fields = append(fields, errors.FieldError{Field: "date", Message: "Date must be in YYYY-MM-DD format"})
		}
	}
	if req.Time != nil {
		if _, err := availability.ParseHour(*req.Time); err != nil {
			fields = append(fields, errors.FieldError{Field: "time", Message: "Time must be in HH:00 format"})
		}
	}
	if req.Participants != nil && *req.Participants < 0 {
		fields = append(fields, errors.FieldError{Field: "participants", Message: "Participants cannot be negative"})
	}
	return fields
}
