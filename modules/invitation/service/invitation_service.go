package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	coreEntity "meetgrid/core/entity"
	"meetgrid/core/errors"
	"meetgrid/core/logger"
	"meetgrid/core/utils"
	eventEntity "meetgrid/modules/event/entity"
	"meetgrid/modules/invitation/dto"
	"meetgrid/modules/invitation/entity"
	"meetgrid/modules/invitation/repository"
	notifDto "meetgrid/modules/notification/dto"
	notifEntity "meetgrid/modules/notification/entity"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgEmailRequired = "Email is required"
	msgEmailInvalid  = "Please enter a valid email address"
	msgEmailInvited  = "This email has already been invited"
)

// EventReader looks up the event an invitation belongs to.
type EventReader interface {
	GetByID(ctx context.Context, id string) (*eventEntity.Event, error)
}

// Notifier queues outbound email.
type Notifier interface {
	Create(ctx context.Context, req *notifDto.CreateNotificationRequest) error
}

type InvitationService struct {
	repo     repository.InvitationRepositoryInterface
	events   EventReader
	notifier Notifier
	baseURL  string
	now      func() time.Time
	// serializes the exists check and insert per event
	locks *utils.KeyedMutex
}

func NewInvitationService(repo repository.InvitationRepositoryInterface, events EventReader, notifier Notifier, baseURL string) *InvitationService {
	return &InvitationService{
		repo:     repo,
		events:   events,
		notifier: notifier,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
		locks:    utils.NewKeyedMutex(),
	}
}

// CreateInvitation validates email, stores the invite and queues the invite
// email. Validation failures carry an inline message for the email field.
func (s *InvitationService) CreateInvitation(ctx context.Context, eventID string, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, *errors.AppError) {
	ev, appErr := s.loadOpenEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, emailError(msgEmailRequired)
	}
	if !emailPattern.MatchString(email) {
		return nil, emailError(msgEmailInvalid)
	}

	unlock := s.locks.Lock(eventID)
	defer unlock()

	exists, err := s.repo.ExistsByEmail(ctx, eventID, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check invitations", err)
	}
	if exists {
		return nil, emailError(msgEmailInvited)
	}

	now := s.now()
	invitation := &entity.EventInvitation{
		EventID: eventID,
		Email:   email,
		Status:  entity.InvitationStatusPending,
		BaseEntity: coreEntity.BaseEntity{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.repo.Create(ctx, invitation); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateEmail) {
			return nil, emailError(msgEmailInvited)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create invitation", err)
	}
	logger.Info("InvitationService:CreateInvitation:Success", "event_id", eventID, "invitation_id", invitation.ID)

	notification := &notifDto.CreateNotificationRequest{
		Recipient: email,
		Subject:   fmt.Sprintf("You're invited: %s", ev.Name),
		Body:      s.inviteBody(ev, invitation.ID),
		Type:      notifEntity.TypeInvite,
		Data: map[string]interface{}{
			"invitation_id": invitation.ID.String(),
			"event_id":      eventID,
		},
	}
	if err := s.notifier.Create(ctx, notification); err != nil {
		logger.Error("InvitationService:CreateInvitation:Notify:Error:", err)
	}

	return dto.ToInvitationResponse(invitation), nil
}

func (s *InvitationService) ListInvitations(ctx context.Context, eventID string) (*dto.InvitationListResponse, *errors.AppError) {
	if _, appErr := s.loadEvent(ctx, eventID); appErr != nil {
		return nil, appErr
	}
	invitations, err := s.repo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get invitations", err)
	}
	return dto.ToInvitationListResponse(invitations), nil
}

func (s *InvitationService) DeleteInvitation(ctx context.Context, eventID string, invitationID uuid.UUID) *errors.AppError {
	if _, appErr := s.loadInvitation(ctx, eventID, invitationID); appErr != nil {
		return appErr
	}
	if err := s.repo.Delete(ctx, invitationID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete invitation", err)
	}
	logger.Info("InvitationService:DeleteInvitation:Success", "event_id", eventID, "invitation_id", invitationID)
	return nil
}

// UpdateStatus is the organizer override of an invite's status.
func (s *InvitationService) UpdateStatus(ctx context.Context, eventID string, invitationID uuid.UUID, status string) (*dto.InvitationResponse, *errors.AppError) {
	invitation, appErr := s.loadInvitation(ctx, eventID, invitationID)
	if appErr != nil {
		return nil, appErr
	}
	return s.setStatus(ctx, invitation, entity.InvitationStatus(status))
}

// Respond records the invitee's own answer from the link in the invite email.
func (s *InvitationService) Respond(ctx context.Context, invitationID uuid.UUID, status string) (*dto.InvitationResponse, *errors.AppError) {
	next := entity.InvitationStatus(status)
	if next != entity.InvitationStatusAccepted && next != entity.InvitationStatusDeclined {
		return nil, errors.NewValidationError("Validation failed", []errors.FieldError{
			{Field: "status", Message: "Status must be accepted or declined"},
		})
	}

	invitation, err := s.repo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get invitation", err)
	}
	if invitation == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Invitation not found", nil)
	}
	return s.setStatus(ctx, invitation, next)
}

// EventScheduled emails every invitee who has not declined once the organizer
// picks the final slot.
func (s *InvitationService) EventScheduled(ctx context.Context, ev *eventEntity.Event) error {
	invitations, err := s.repo.ListByEventID(ctx, ev.ID)
	if err != nil {
		return err
	}

	queued := 0
	for _, inv := range invitations {
		if inv.Status == entity.InvitationStatusDeclined {
			continue
		}
		err := s.notifier.Create(ctx, &notifDto.CreateNotificationRequest{
			Recipient: inv.Email,
			Subject:   fmt.Sprintf("Scheduled: %s", ev.Name),
			Body:      s.scheduledBody(ev),
			Type:      notifEntity.TypeEventScheduled,
			Data: map[string]interface{}{
				"invitation_id": inv.ID.String(),
				"event_id":      ev.ID,
			},
		})
		if err != nil {
			return err
		}
		queued++
	}

	logger.Info("InvitationService:EventScheduled", "event_id", ev.ID, "queued", queued)
	return nil
}

func (s *InvitationService) setStatus(ctx context.Context, invitation *entity.EventInvitation, status entity.InvitationStatus) (*dto.InvitationResponse, *errors.AppError) {
	if !status.Valid() {
		return nil, errors.NewValidationError("Validation failed", []errors.FieldError{
			{Field: "status", Message: "Status must be pending, accepted or declined"},
		})
	}
	if err := s.repo.UpdateStatus(ctx, invitation.ID, status); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update invitation", err)
	}
	invitation.Status = status
	invitation.UpdatedAt = s.now()

	logger.Info("InvitationService:SetStatus", "invitation_id", invitation.ID, "status", status)
	return dto.ToInvitationResponse(invitation), nil
}

func (s *InvitationService) loadEvent(ctx context.Context, eventID string) (*eventEntity.Event, *errors.AppError) {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if ev == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return ev, nil
}

// loadOpenEvent is loadEvent for operations that cannot target a cancelled event.
func (s *InvitationService) loadOpenEvent(ctx context.Context, eventID string) (*eventEntity.Event, *errors.AppError) {
	ev, appErr := s.loadEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if ev.Status == eventEntity.EventStatusCancelled {
		return nil, errors.NewValidationError("Event has been cancelled", []errors.FieldError{
			{Field: "event", Message: "This event has been cancelled"},
		})
	}
	return ev, nil
}

func (s *InvitationService) loadInvitation(ctx context.Context, eventID string, invitationID uuid.UUID) (*entity.EventInvitation, *errors.AppError) {
	invitation, err := s.repo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get invitation", err)
	}
	if invitation == nil || invitation.EventID != eventID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Invitation not found", nil)
	}
	return invitation, nil
}

func (s *InvitationService) inviteBody(ev *eventEntity.Event, invitationID uuid.UUID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have been invited to %q.\n\n", ev.Name)
	if ev.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", ev.Description)
	}
	fmt.Fprintf(&b, "Dates: %s, %s to %s\n", strings.Join(ev.Dates, ", "), ev.StartTime, ev.EndTime)
	fmt.Fprintf(&b, "Mark your availability: %s/events/%s\n", s.baseURL, ev.ID)
	fmt.Fprintf(&b, "Reply: %s/invites/%s\n", s.baseURL, invitationID)
	return b.String()
}

func (s *InvitationService) scheduledBody(ev *eventEntity.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q has been scheduled", ev.Name)
	if ev.FinalDate != nil && ev.FinalTime != nil {
		fmt.Fprintf(&b, " for %s at %s", *ev.FinalDate, *ev.FinalTime)
	}
	b.WriteString(".\n")
	if ev.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", ev.Location)
	}
	fmt.Fprintf(&b, "Add to calendar: %s/api/v1/events/%s/calendar.ics\n", s.baseURL, ev.ID)
	return b.String()
}

func emailError(message string) *errors.AppError {
	return errors.NewValidationError(message, []errors.FieldError{{Field: "email", Message: message}})
}
