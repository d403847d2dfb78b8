package mapper

import (
	"meetgrid/modules/dashboard/dto"
	"meetgrid/modules/dashboard/entity"
	eventEntity "meetgrid/modules/event/entity"
)

func ToOverrideEntity(req *dto.OverrideRequest) entity.EventOverride {
	return entity.EventOverride{
		Name:         req.Name,
		Date:         req.Date,
		Time:         req.Time,
		Participants: req.Participants,
	}
}

// ToDashboardEvent flattens an event into a dashboard row. A scheduled event
// shows its final slot, otherwise its first date and start hour.
func ToDashboardEvent(ev *eventEntity.Event, override *entity.EventOverride) dto.DashboardEventResponse {
	row := dto.DashboardEventResponse{
		ID:           ev.ID,
		Name:         ev.Name,
		Time:         ev.StartTime,
		Participants: len(ev.Participants),
	}
	if len(ev.Dates) > 0 {
		row.Date = ev.Dates[0]
	}
	if ev.FinalDate != nil && ev.FinalTime != nil {
		row.Date = *ev.FinalDate
		row.Time = *ev.FinalTime
	}

	if override == nil {
		return row
	}
	row.Edited = true
	if override.Name != nil {
		row.Name = *override.Name
	}
	if override.Date != nil {
		row.Date = *override.Date
	}
	if override.Time != nil {
		row.Time = *override.Time
	}
	if override.Participants != nil {
		row.Participants = *override.Participants
	}
	return row
}
