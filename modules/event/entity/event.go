package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// EventStatus represents the lifecycle of an event
type EventStatus string

const (
	EventStatusOpen      EventStatus = "open"
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a scheduling poll over a set of dates and an hour range.
// TimeSlots holds exactly one slot per (date, hour) pair; it is generated once
// at creation and only the availability sets change afterwards.
type Event struct {
	ID           string      `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Description  string      `db:"description" json:"description"`
	Location     string      `db:"location" json:"location"`
	Dates        DateList    `db:"dates" json:"dates"`
	StartTime    string      `db:"start_time" json:"start_time"`
	EndTime      string      `db:"end_time" json:"end_time"`
	Status       EventStatus `db:"status" json:"status"`
	FinalDate    *string     `db:"final_date" json:"final_date,omitempty"`
	FinalTime    *string     `db:"final_time" json:"final_time,omitempty"`
	Participants []string    `db:"-" json:"participants"`
	TimeSlots    []TimeSlot  `db:"-" json:"time_slots"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// HasParticipant reports whether name has joined the event.
func (e *Event) HasParticipant(name string) bool {
	for _, p := range e.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate slots without aliasing.
func (e *Event) Clone() *Event {
	c := *e
	c.Dates = append(DateList(nil), e.Dates...)
	c.Participants = append([]string(nil), e.Participants...)
	c.TimeSlots = make([]TimeSlot, len(e.TimeSlots))
	for i, s := range e.TimeSlots {
		c.TimeSlots[i] = s.Clone()
	}
	if e.FinalDate != nil {
		d := *e.FinalDate
		c.FinalDate = &d
	}
	if e.FinalTime != nil {
		t := *e.FinalTime
		c.FinalTime = &t
	}
	return &c
}

// DateList is stored as a JSON array column.
type DateList []string

func (d DateList) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *DateList) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, (*[]string)(d))
}
