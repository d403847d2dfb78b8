// Package availability implements the availability grid of an event: slot
// generation and lookup, drag selection, toggling, and aggregation.
//
// Everything here is synchronous and operates on slots owned by the caller.
// Callers are expected to serialize mutations of one event.
package availability

import (
	"fmt"
	"strconv"
	"strings"

	"meetgrid/modules/event/entity"
)

// Generate returns one empty slot per (date, hour) pair, dates outer and hours
// inner. Callers validate 0 <= startHour < endHour <= 23.
func Generate(dates []string, startHour, endHour int) []entity.TimeSlot {
	n := endHour - startHour
	if n < 0 {
		n = 0
	}
	slots := make([]entity.TimeSlot, 0, len(dates)*n)
	for _, date := range dates {
		for h := startHour; h < endHour; h++ {
			slots = append(slots, entity.TimeSlot{
				Date:      date,
				Time:      HourLabel(h),
				Available: []string{},
			})
		}
	}
	return slots
}

// HourLabel formats an hour as "HH:00".
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// ParseHour reads an "HH:00" label.
func ParseHour(label string) (int, error) {
	hh, mm, ok := strings.Cut(label, ":")
	if !ok || len(hh) != 2 || mm != "00" {
		return 0, fmt.Errorf("invalid hour %q: want HH:00", label)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour %q: want 00:00-23:00", label)
	}
	return h, nil
}

// Hours lists the hours in [start, end).
func Hours(start, end int) []int {
	hours := make([]int, 0, max(end-start, 0))
	for h := start; h < end; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Store is a view over an event's slot slice. Mutations through the returned
// pointers write into the caller's slice.
type Store struct {
	slots []entity.TimeSlot
}

func NewStore(slots []entity.TimeSlot) *Store {
	return &Store{slots: slots}
}

// Lookup finds the slot for (date, time). A nil result means the slot does not
// exist and is treated as zero availability.
func (s *Store) Lookup(date, time string) *entity.TimeSlot {
	for i := range s.slots {
		if s.slots[i].Date == date && s.slots[i].Time == time {
			return &s.slots[i]
		}
	}
	return nil
}

func (s *Store) Slots() []entity.TimeSlot {
	return s.slots
}

// IsAvailable reports whether participant is marked at key.
func (s *Store) IsAvailable(key entity.SlotKey, participant string) bool {
	slot := s.Lookup(key.Date, key.Time)
	return slot != nil && slot.Has(participant)
}

// Grid is the ordered axes of an event: dates as columns, hours as rows.
type Grid struct {
	Dates []string
	Hours []int
}

// GridFor derives the axes of ev from its dates and hour range.
func GridFor(ev *entity.Event) (Grid, error) {
	start, err := ParseHour(ev.StartTime)
	if err != nil {
		return Grid{}, err
	}
	end, err := ParseHour(ev.EndTime)
	if err != nil {
		return Grid{}, err
	}
	return Grid{Dates: ev.Dates, Hours: Hours(start, end)}, nil
}

func (g Grid) dateIndex(date string) int {
	for i, d := range g.Dates {
		if d == date {
			return i
		}
	}
	return -1
}

func (g Grid) hourIndex(label string) int {
	h, err := ParseHour(label)
	if err != nil {
		return -1
	}
	for i, v := range g.Hours {
		if v == h {
			return i
		}
	}
	return -1
}

// Contains reports whether key is a cell of the grid.
func (g Grid) Contains(key entity.SlotKey) bool {
	return g.dateIndex(key.Date) >= 0 && g.hourIndex(key.Time) >= 0
}
