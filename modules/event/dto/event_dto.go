package dto

import (
	"time"

	"meetgrid/modules/event/availability"
	"meetgrid/modules/event/entity"
)

// ===================== Request DTOs =====================

// CreateEventRequest for creating a new event
type CreateEventRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Dates       []string `json:"dates" validate:"required,min=1"` // YYYY-MM-DD
	StartTime   string   `json:"start_time" validate:"required"`  // HH:00
	EndTime     string   `json:"end_time" validate:"required"`    // HH:00
}

// UpdateEventRequest for updating event details. Dates and hours are fixed
// once the grid exists.
type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

type JoinRequest struct {
	Name string `json:"name" validate:"required"`
}

type SlotRef struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (r SlotRef) Key() entity.SlotKey {
	return entity.SlotKey{Date: r.Date, Time: r.Time}
}

// ToggleRequest flips one cell for a participant
type ToggleRequest struct {
	Participant string `json:"participant" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
}

// DragRequest replays a press-drag-release over the grid. Path lists the
// cells entered after the anchor; when empty, Current is the only one.
type DragRequest struct {
	Participant string    `json:"participant" validate:"required"`
	Anchor      SlotRef   `json:"anchor"`
	Current     SlotRef   `json:"current"`
	Path        []SlotRef `json:"path,omitempty"`
}

type FinalizeRequest struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time" validate:"required"`
}

// ===================== Response DTOs =====================

type TimeSlotResponse struct {
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Available []string `json:"available"`
	Level     float64  `json:"level"`
}

// EventResponse for event details
type EventResponse struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Location     string             `json:"location,omitempty"`
	Dates        []string           `json:"dates"`
	StartTime    string             `json:"start_time"`
	EndTime      string             `json:"end_time"`
	Status       string             `json:"status"`
	FinalDate    *string            `json:"final_date,omitempty"`
	FinalTime    *string            `json:"final_time,omitempty"`
	Participants []string           `json:"participants"`
	TimeSlots    []TimeSlotResponse `json:"time_slots"`
	ShareURL     string             `json:"share_url,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// CreateEventResponse carries the organizer token, which is only ever
// returned here.
type CreateEventResponse struct {
	Event          *EventResponse `json:"event"`
	OrganizerToken string         `json:"organizer_token"`
	TokenExpiresAt time.Time      `json:"token_expires_at"`
}

type MutationResponse struct {
	Changed []entity.SlotKey `json:"changed"`
	Event   *EventResponse   `json:"event"`
}

type ParticipantCoverageResponse struct {
	Name    string `json:"name"`
	Slots   int    `json:"slots"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
}

type BestTimeResponse struct {
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Available []string `json:"available"`
	Count     int      `json:"count"`
	Level     float64  `json:"level"`
}

// SummaryResponse is the aggregated view of an event's grid
type SummaryResponse struct {
	EventID           string                        `json:"event_id"`
	Status            string                        `json:"status"`
	TotalParticipants int                           `json:"total_participants"`
	TotalSlots        int                           `json:"total_slots"`
	Participants      []ParticipantCoverageResponse `json:"participants"`
	BestTimes         []BestTimeResponse            `json:"best_times"`
}

// ===================== Mappers =====================

// ToEventResponse converts an event entity to its response shape
func ToEventResponse(ev *entity.Event, shareURL string) *EventResponse {
	participants := append([]string{}, ev.Participants...)
	total := len(participants)

	slots := make([]TimeSlotResponse, 0, len(ev.TimeSlots))
	for _, s := range ev.TimeSlots {
		slots = append(slots, TimeSlotResponse{
			Date:      s.Date,
			Time:      s.Time,
			Available: append([]string{}, s.Available...),
			Level:     availability.AvailabilityLevel(s, total),
		})
	}

	return &EventResponse{
		ID:           ev.ID,
		Name:         ev.Name,
		Description:  ev.Description,
		Location:     ev.Location,
		Dates:        append([]string{}, ev.Dates...),
		StartTime:    ev.StartTime,
		EndTime:      ev.EndTime,
		Status:       string(ev.Status),
		FinalDate:    ev.FinalDate,
		FinalTime:    ev.FinalTime,
		Participants: participants,
		TimeSlots:    slots,
		ShareURL:     shareURL,
		CreatedAt:    ev.CreatedAt,
		UpdatedAt:    ev.UpdatedAt,
	}
}

// ToSummaryResponse derives coverage and the top best times from ev.
func ToSummaryResponse(ev *entity.Event, top int) *SummaryResponse {
	total := len(ev.Participants)

	coverage := availability.Coverage(ev.Participants, ev.TimeSlots)
	participants := make([]ParticipantCoverageResponse, 0, len(coverage))
	for _, c := range coverage {
		participants = append(participants, ParticipantCoverageResponse{
			Name:    c.Name,
			Slots:   c.Slots,
			Total:   c.TotalSlots,
			Percent: c.Percent,
		})
	}

	best := availability.TopBestTimes(ev.TimeSlots, top)
	bestTimes := make([]BestTimeResponse, 0, len(best))
	for _, s := range best {
		bestTimes = append(bestTimes, BestTimeResponse{
			Date:      s.Date,
			Time:      s.Time,
			Available: s.Available,
			Count:     len(s.Available),
			Level:     availability.AvailabilityLevel(s, total),
		})
	}

	return &SummaryResponse{
		EventID:           ev.ID,
		Status:            string(ev.Status),
		TotalParticipants: total,
		TotalSlots:        len(ev.TimeSlots),
		Participants:      participants,
		BestTimes:         bestTimes,
	}
}
