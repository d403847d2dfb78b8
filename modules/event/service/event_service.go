package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"meetgrid/core/constants"
	"meetgrid/core/errors"
	"meetgrid/core/logger"
	"meetgrid/core/utils"
	"meetgrid/modules/event/availability"
	"meetgrid/modules/event/dto"
	"meetgrid/modules/event/entity"
	"meetgrid/modules/event/export"
	"meetgrid/modules/event/realtime"
	"meetgrid/modules/event/repository"
)

// Publisher receives a message after every completed change to an event.
type Publisher interface {
	Publish(eventID string, msgType string, data any)
}

// ScheduleListener is told when the organizer picks the final slot.
type ScheduleListener interface {
	EventScheduled(ctx context.Context, ev *entity.Event) error
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.CreateEventResponse, *errors.AppError)
	GetEvent(ctx context.Context, id string) (*dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	CancelEvent(ctx context.Context, id string) *errors.AppError
	Join(ctx context.Context, id string, req *dto.JoinRequest) (*dto.EventResponse, *errors.AppError)
	Toggle(ctx context.Context, id string, req *dto.ToggleRequest) (*dto.MutationResponse, *errors.AppError)
	Drag(ctx context.Context, id string, req *dto.DragRequest) (*dto.MutationResponse, *errors.AppError)
	Summary(ctx context.Context, id string, top int) (*dto.SummaryResponse, *errors.AppError)
	Finalize(ctx context.Context, id string, req *dto.FinalizeRequest) (*dto.EventResponse, *errors.AppError)
	CalendarICS(ctx context.Context, id string) ([]byte, string, *errors.AppError)
	ShareQR(ctx context.Context, id string, size int) ([]byte, *errors.AppError)
	OnScheduled(listener ScheduleListener)
}

type Options struct {
	Tokens    *utils.TokenManager
	Publisher Publisher
	BaseURL   string
	Location  *time.Location
}

// EventService handles event business logic. All writes to one event are
// serialized: load, apply, persist the changed slots, then release.
type EventService struct {
	repo      repository.EventRepositoryInterface
	tokens    *utils.TokenManager
	publisher Publisher
	listeners []ScheduleListener
	baseURL   string
	loc       *time.Location
	locks     *utils.KeyedMutex
	now       func() time.Time
}

// NewEventService creates a new event service
func NewEventService(repo repository.EventRepositoryInterface, opts Options) *EventService {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &EventService{
		repo:      repo,
		tokens:    opts.Tokens,
		publisher: opts.Publisher,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		loc:       loc,
		locks:     utils.NewKeyedMutex(),
		now:       time.Now,
	}
}

func (s *EventService) OnScheduled(listener ScheduleListener) {
	s.listeners = append(s.listeners, listener)
}

// ShareURL is the public link participants open to join.
func (s *EventService) ShareURL(id string) string {
	return s.baseURL + "/events/" + id
}

// CreateEvent validates the request, generates the grid and issues the
// organizer token.
func (s *EventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.CreateEventResponse, *errors.AppError) {
	in, fields := validateCreate(req)
	if len(fields) > 0 {
		return nil, validationFailed(fields...)
	}

	ev := &entity.Event{
		ID:           utils.GenerateID(),
		Name:         in.name,
		Description:  strings.TrimSpace(req.Description),
		Location:     strings.TrimSpace(req.Location),
		Dates:        entity.DateList(in.dates),
		StartTime:    availability.HourLabel(in.startHour),
		EndTime:      availability.HourLabel(in.endHour),
		Status:       entity.EventStatusOpen,
		Participants: []string{},
		TimeSlots:    availability.Generate(in.dates, in.startHour, in.endHour),
	}

	logger.Info("EventService:CreateEvent:Start", "event_id", ev.ID, "dates", len(ev.Dates), "slots", len(ev.TimeSlots))

	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	token, expiresAt, err := s.tokens.IssueOrganizerToken(ev.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue organizer token", err)
	}

	logger.Info("EventService:CreateEvent:Success", "event_id", ev.ID)

	return &dto.CreateEventResponse{
		Event:          dto.ToEventResponse(ev, s.ShareURL(ev.ID)),
		OrganizerToken: token,
		TokenExpiresAt: expiresAt,
	}, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*dto.EventResponse, *errors.AppError) {
	ev, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToEventResponse(ev, s.ShareURL(ev.ID)), nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	unlock := s.locks.Lock(id)
	defer unlock()

	ev, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationFailed(errors.FieldError{Field: "name", Message: "Event name is required"})
		}
		ev.Name = name
	}
	if req.Description != nil {
		ev.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		ev.Location = strings.TrimSpace(*req.Location)
	}

	if err := s.repo.Update(ctx, ev); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event", err)
	}

	logger.Info("EventService:UpdateEvent:Success", "event_id", id)
	return dto.ToEventResponse(ev, s.ShareURL(ev.ID)), nil
}

// CancelEvent marks the event cancelled. The grid is kept for reference.
func (s *EventService) CancelEvent(ctx context.Context, id string) *errors.AppError {
	unlock := s.locks.Lock(id)
	defer unlock()

	ev, appErr := s.load(ctx, id)
	if appErr != nil {
		return appErr
	}
	if ev.Status == entity.EventStatusCancelled {
		return nil
	}

	ev.Status = entity.EventStatusCancelled
	if err := s.repo.Update(ctx, ev); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to cancel event", err)
	}

	logger.Info("EventService:CancelEvent:Success", "event_id", id)
	s.publish(ev.ID, realtime.MessageCancelled, dto.ToEventResponse(ev, s.ShareURL(ev.ID)))
	return nil
}

// Join adds a participant by display name. Joining twice is a no-op.
func (s *EventService) Join(ctx context.Context, id string, req *dto.JoinRequest) (*dto.EventResponse, *errors.AppError) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationFailed(errors.FieldError{Field: "name", Message: "Please enter your name"})
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	ev, appErr := s.loadWritable(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if !ev.HasParticipant(name) {
		if err := s.repo.AddParticipant(ctx, ev.ID, name); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to join event", err)
		}
		ev.Participants = append(ev.Participants, name)
		logger.Info("EventService:Join:Success", "event_id", id, "participants", len(ev.Participants))
		s.publishSummary(ev)
	}

	return dto.ToEventResponse(ev, s.ShareURL(ev.ID)), nil
}

// Toggle flips a single cell for the participant. A cell outside the grid
// changes nothing.
func (s *EventService) Toggle(ctx context.Context, id string, req *dto.ToggleRequest) (*dto.MutationResponse, *errors.AppError) {
	participant := strings.TrimSpace(req.Participant)

	return s.mutate(ctx, id, participant, func(ev *entity.Event, store *availability.Store) []entity.SlotKey {
		if availability.NewMutator(store).ToggleSingle(req.Date, req.Time, participant) {
			return []entity.SlotKey{{Date: req.Date, Time: req.Time}}
		}
		return nil
	})
}

// Drag replays a press at Anchor, enters over Path then Current, and a
// release, then commits the resulting selection.
func (s *EventService) Drag(ctx context.Context, id string, req *dto.DragRequest) (*dto.MutationResponse, *errors.AppError) {
	participant := strings.TrimSpace(req.Participant)

	return s.mutate(ctx, id, participant, func(ev *entity.Event, store *availability.Store) []entity.SlotKey {
		grid, err := availability.GridFor(ev)
		if err != nil {
			logger.Error("EventService:Drag:Grid", "event_id", ev.ID, "error", err)
			return nil
		}

		gesture := availability.NewGesture(grid)
		gesture.Press(store, req.Anchor.Key(), participant)
		for _, cell := range req.Path {
			gesture.Enter(cell.Key())
		}
		gesture.Enter(req.Current.Key())

		sel, ok := gesture.Release()
		if !ok {
			return nil
		}
		logger.Debug("EventService:Drag:Selection", "event_id", ev.ID, "mode", sel.Mode, "cells", len(sel.Region))
		return availability.NewMutator(store).Commit(sel, participant)
	})
}

func (s *EventService) mutate(
	ctx context.Context,
	id string,
	participant string,
	apply func(ev *entity.Event, store *availability.Store) []entity.SlotKey,
) (*dto.MutationResponse, *errors.AppError) {
	if participant == "" {
		return nil, validationFailed(errors.FieldError{Field: "participant", Message: "Please enter your name"})
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	ev, appErr := s.loadWritable(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if !ev.HasParticipant(participant) {
		return nil, validationFailed(errors.FieldError{Field: "participant", Message: "Join the event before marking availability"})
	}

	store := availability.NewStore(ev.TimeSlots)
	changed := apply(ev, store)

	if len(changed) > 0 {
		slots := make([]entity.TimeSlot, 0, len(changed))
		for _, k := range changed {
			if slot := store.Lookup(k.Date, k.Time); slot != nil {
				slots = append(slots, *slot)
			}
		}
		if err := s.repo.SaveSlots(ctx, ev.ID, slots); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save availability", err)
		}
		logger.Info("EventService:Mutate:Success", "event_id", id, "changed", len(changed))
		s.publishSummary(ev)
	}

	if changed == nil {
		changed = []entity.SlotKey{}
	}
	return &dto.MutationResponse{
		Changed: changed,
		Event:   dto.ToEventResponse(ev, s.ShareURL(ev.ID)),
	}, nil
}

func (s *EventService) Summary(ctx context.Context, id string, top int) (*dto.SummaryResponse, *errors.AppError) {
	ev, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if top <= 0 {
		top = constants.DefaultBestTimes
	}
	return dto.ToSummaryResponse(ev, top), nil
}

// Finalize records the organizer's chosen slot and schedules the event.
func (s *EventService) Finalize(ctx context.Context, id string, req *dto.FinalizeRequest) (*dto.EventResponse, *errors.AppError) {
	unlock := s.locks.Lock(id)
	defer unlock()

	ev, appErr := s.loadWritable(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if availability.NewStore(ev.TimeSlots).Lookup(req.Date, req.Time) == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Time slot not found", nil)
	}

	if ev.Status == entity.EventStatusScheduled && ev.FinalDate != nil && ev.FinalTime != nil &&
		*ev.FinalDate == req.Date && *ev.FinalTime == req.Time {
		// same slot again: nothing to store and nobody to notify
		return dto.ToEventResponse(ev, s.ShareURL(ev.ID)), nil
	}

	date, hour := req.Date, req.Time
	ev.Status = entity.EventStatusScheduled
	ev.FinalDate = &date
	ev.FinalTime = &hour

	if err := s.repo.Update(ctx, ev); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to finalize event", err)
	}
	logger.Info("EventService:Finalize:Success", "event_id", id, "date", date, "time", hour)

	resp := dto.ToEventResponse(ev, s.ShareURL(ev.ID))
	s.publish(ev.ID, realtime.MessageScheduled, resp)
	for _, l := range s.listeners {
		if err := l.EventScheduled(ctx, ev); err != nil {
			logger.Error("EventService:Finalize:Listener", "event_id", id, "error", err)
		}
	}
	return resp, nil
}

// CalendarICS renders the scheduled slot and names the file for download.
func (s *EventService) CalendarICS(ctx context.Context, id string) ([]byte, string, *errors.AppError) {
	ev, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, "", appErr
	}
	raw, err := export.ICS(ev, s.loc, s.now())
	if err != nil {
		if stderrors.Is(err, export.ErrNotScheduled) {
			return nil, "", errors.NewAppError(errors.ErrNotFound, "Event has not been scheduled yet", err)
		}
		return nil, "", errors.NewAppError(errors.ErrInternalServer, "Failed to export calendar", err)
	}
	return raw, export.ICSFilename(ev), nil
}

func (s *EventService) ShareQR(ctx context.Context, id string, size int) ([]byte, *errors.AppError) {
	if _, appErr := s.load(ctx, id); appErr != nil {
		return nil, appErr
	}
	png, err := export.ShareQR(s.ShareURL(id), size)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to render QR code", err)
	}
	return png, nil
}

func (s *EventService) load(ctx context.Context, id string) (*entity.Event, *errors.AppError) {
	if !utils.IsValidID(id) {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if ev == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return ev, nil
}

func (s *EventService) loadWritable(ctx context.Context, id string) (*entity.Event, *errors.AppError) {
	ev, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if ev.Status == entity.EventStatusCancelled {
		return nil, validationFailed(errors.FieldError{Field: "event", Message: "This event has been cancelled"})
	}
	return ev, nil
}

func (s *EventService) publishSummary(ev *entity.Event) {
	s.publish(ev.ID, realtime.MessageSummary, dto.ToSummaryResponse(ev, constants.DefaultBestTimes))
}

func (s *EventService) publish(eventID, msgType string, data any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(eventID, msgType, data)
}
