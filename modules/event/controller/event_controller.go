package controller

import (
	"net/http"
	"strconv"

	"meetgrid/core/controller"
	"meetgrid/core/errors"
	"meetgrid/modules/event/dto"
	"meetgrid/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Subscriber streams live updates for one event.
type Subscriber interface {
	Serve(w http.ResponseWriter, r *http.Request, eventID string) error
}

// EventController handles event HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
	Subscriber   Subscriber
}

// NewEventController creates a new controller
func NewEventController(svc service.EventServiceInterface, sub Subscriber) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
		Subscriber:     sub,
	}
}

// CreateEvent handles POST /events
// @Summary Create event
// @Description Create a scheduling event over a set of dates and an hour range
// @Tags Event
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event details"
// @Success 201 {object} dto.CreateEventResponse
// @Failure 400 {object} errors.AppError
// @Router /events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Event created successfully")
}

// GetEvent handles GET /events/:id
// @Summary Get event
// @Description Event details with its grid and participants
// @Tags Event
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateEvent handles PUT /events/:id
// @Summary Update event
// @Description Update name, description or location
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to update"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} errors.AppError
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event updated successfully")
}

// DeleteEvent handles DELETE /events/:id
// @Summary Cancel event
// @Tags Event
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	if appErr := c.EventService.CancelEvent(ctx.Request().Context(), ctx.Param("id")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event cancelled successfully")
}

// Join handles POST /events/:id/join
// @Summary Join event
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.JoinRequest true "Display name"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} errors.AppError
// @Router /events/{id}/join [post]
func (c *EventController) Join(ctx echo.Context) error {
	var req dto.JoinRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.Join(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Joined event")
}

// Toggle handles POST /events/:id/availability/toggle
// @Summary Toggle one slot
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.ToggleRequest true "Slot"
// @Success 200 {object} dto.MutationResponse
// @Failure 400 {object} errors.AppError
// @Router /events/{id}/availability/toggle [post]
func (c *EventController) Toggle(ctx echo.Context) error {
	var req dto.ToggleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.Toggle(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Drag handles POST /events/:id/availability/drag
// @Summary Apply a drag selection
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.DragRequest true "Drag gesture"
// @Success 200 {object} dto.MutationResponse
// @Failure 400 {object} errors.AppError
// @Router /events/{id}/availability/drag [post]
func (c *EventController) Drag(ctx echo.Context) error {
	var req dto.DragRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.Drag(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Summary handles GET /events/:id/summary
// @Summary Coverage and best times
// @Tags Availability
// @Produce json
// @Param id path string true "Event ID"
// @Param top query int false "Number of best times (default 3)"
// @Success 200 {object} dto.SummaryResponse
// @Failure 404 {object} errors.AppError
// @Router /events/{id}/summary [get]
func (c *EventController) Summary(ctx echo.Context) error {
	top := 0
	if raw := ctx.QueryParam("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid top parameter")
		}
		top = n
	}

	result, appErr := c.EventService.Summary(ctx.Request().Context(), ctx.Param("id"), top)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Finalize handles POST /events/:id/finalize
// @Summary Pick the final slot
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.FinalizeRequest true "Slot"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /events/{id}/finalize [post]
func (c *EventController) Finalize(ctx echo.Context) error {
	var req dto.FinalizeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.Finalize(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event scheduled")
}

// CalendarICS handles GET /events/:id/calendar.ics
// @Summary Download the scheduled slot as iCalendar
// @Tags Event
// @Produce text/calendar
// @Param id path string true "Event ID"
// @Success 200 {string} string
// @Failure 404 {object} errors.AppError
// @Router /events/{id}/calendar.ics [get]
func (c *EventController) CalendarICS(ctx echo.Context) error {
	raw, filename, appErr := c.EventService.CalendarICS(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", raw)
}

// ShareQR handles GET /events/:id/qr.png
// @Summary QR code of the share link
// @Tags Event
// @Produce png
// @Param id path string true "Event ID"
// @Param size query int false "Pixels (default 256)"
// @Success 200 {file} binary
// @Router /events/{id}/qr.png [get]
func (c *EventController) ShareQR(ctx echo.Context) error {
	size, _ := strconv.Atoi(ctx.QueryParam("size"))

	png, appErr := c.EventService.ShareQR(ctx.Request().Context(), ctx.Param("id"), size)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.Blob(http.StatusOK, "image/png", png)
}

// Subscribe handles GET /events/:id/ws
func (c *EventController) Subscribe(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, appErr := c.EventService.GetEvent(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	// On a failed upgrade the upgrader has already written the response.
	_ = c.Subscriber.Serve(ctx.Response(), ctx.Request(), id)
	return nil
}
