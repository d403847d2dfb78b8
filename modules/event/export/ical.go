// Package export renders a scheduled event for other calendar tools.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"meetgrid/core/constants"
	"meetgrid/modules/event/entity"

	"github.com/emersion/go-ical"
	"github.com/gosimple/slug"
)

// SlotDuration is the length of one grid cell.
const SlotDuration = time.Hour

var ErrNotScheduled = errors.New("event has no final time slot")

// ICSFilename is the download name for ev's calendar file, derived from the
// event name and falling back to the id when the name has no usable letters.
func ICSFilename(ev *entity.Event) string {
	name := slug.Make(ev.Name)
	if name == "" {
		name = ev.ID
	}
	return name + ".ics"
}

// FinalSlotStart resolves the finalized slot of ev to an instant in loc.
func FinalSlotStart(ev *entity.Event, loc *time.Location) (time.Time, error) {
	if ev.FinalDate == nil || ev.FinalTime == nil {
		return time.Time{}, ErrNotScheduled
	}
	start, err := time.ParseInLocation(constants.DateLayout+" 15:04", *ev.FinalDate+" "+*ev.FinalTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse final slot: %w", err)
	}
	return start, nil
}

// Calendar builds a VCALENDAR with one VEVENT covering the finalized slot.
func Calendar(ev *entity.Event, loc *time.Location, now time.Time) (*ical.Calendar, error) {
	start, err := FinalSlotStart(ev, loc)
	if err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//meetgrid//EN")

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, ev.ID+"@meetgrid")
	ve.Props.SetText(ical.PropSummary, ev.Name)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(SlotDuration).UTC())
	if ev.Description != "" {
		ve.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		ve.Props.SetText(ical.PropLocation, ev.Location)
	}
	cal.Children = append(cal.Children, ve)

	return cal, nil
}

// ICS encodes the calendar for ev.
func ICS(ev *entity.Event, loc *time.Location, now time.Time) ([]byte, error) {
	cal, err := Calendar(ev, loc, now)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
