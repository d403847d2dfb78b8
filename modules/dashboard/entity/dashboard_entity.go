package entity

type DashboardStatus string

const (
	StatusUpcoming  DashboardStatus = "upcoming"
	StatusCompleted DashboardStatus = "completed"
	StatusCancelled DashboardStatus = "cancelled"
)

// EventOverride is a partial display edit applied on top of a stored event.
// Nil fields keep the event's own value.
type EventOverride struct {
	Name         *string `json:"name,omitempty"`
	Date         *string `json:"date,omitempty"`
	Time         *string `json:"time,omitempty"`
	Participants *int    `json:"participants,omitempty"`
}

func (o EventOverride) IsEmpty() bool {
	return o.Name == nil && o.Date == nil && o.Time == nil && o.Participants == nil
}

// State is the whole persisted dashboard document.
type State struct {
	Removed []string
	Edited  map[string]EventOverride
}

func (s *State) IsRemoved(id string) bool {
	for _, r := range s.Removed {
		if r == id {
			return true
		}
	}
	return false
}
