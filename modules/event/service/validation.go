package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"meetgrid/core/constants"
	"meetgrid/core/errors"
	"meetgrid/modules/event/availability"
	"meetgrid/modules/event/dto"
)

type createInput struct {
	name      string
	dates     []string
	startHour int
	endHour   int
}

// validateCreate normalizes a create request the way the date picker does:
// dates are deduplicated and sorted ascending.
func validateCreate(req *dto.CreateEventRequest) (*createInput, []errors.FieldError) {
	var fields []errors.FieldError
	in := &createInput{name: strings.TrimSpace(req.Name)}

	if in.name == "" {
		fields = append(fields, errors.FieldError{Field: "name", Message: "Event name is required"})
	}

	seen := make(map[string]bool, len(req.Dates))
	for _, d := range req.Dates {
		d = strings.TrimSpace(d)
		if _, err := time.Parse(constants.DateLayout, d); err != nil {
			fields = append(fields, errors.FieldError{
				Field:   "dates",
				Message: fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", d),
			})
			continue
		}
		if !seen[d] {
			seen[d] = true
			in.dates = append(in.dates, d)
		}
	}
	if len(req.Dates) == 0 {
		fields = append(fields, errors.FieldError{Field: "dates", Message: "Select at least one date"})
	}
	sort.Strings(in.dates)

	var startErr, endErr error
	in.startHour, startErr = availability.ParseHour(strings.TrimSpace(req.StartTime))
	if startErr != nil {
		fields = append(fields, errors.FieldError{Field: "start_time", Message: "Start time must be in HH:00 format"})
	}
	in.endHour, endErr = availability.ParseHour(strings.TrimSpace(req.EndTime))
	if endErr != nil {
		fields = append(fields, errors.FieldError{Field: "end_time", Message: "End time must be in HH:00 format"})
	}
	if startErr == nil && endErr == nil && in.startHour >= in.endHour {
		fields = append(fields, errors.FieldError{Field: "end_time", Message: "End time must be after start time"})
	}

	return in, fields
}

func validationFailed(fields ...errors.FieldError) *errors.AppError {
	return errors.NewValidationError("Validation failed", fields)
}
