package router

import (
	"meetgrid/core/middleware"
	"meetgrid/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event routes
type EventRouter struct {
	EventController *controller.EventController
}

// NewEventRouter creates a new router
func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes. Reads and participant actions are public;
// the share link is the only credential participants have.
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	events := v1.Group("/events")

	events.POST("", r.EventController.CreateEvent, mw.RateLimit())
	events.GET("/:id", r.EventController.GetEvent)
	events.GET("/:id/summary", r.EventController.Summary)
	events.GET("/:id/calendar.ics", r.EventController.CalendarICS)
	events.GET("/:id/qr.png", r.EventController.ShareQR)
	events.GET("/:id/ws", r.EventController.Subscribe)

	// Participant writes
	events.POST("/:id/join", r.EventController.Join, mw.RateLimit())
	events.POST("/:id/availability/toggle", r.EventController.Toggle, mw.RateLimit())
	events.POST("/:id/availability/drag", r.EventController.Drag, mw.RateLimit())

	// Organizer only
	organizer := mw.OrganizerMiddleware()
	events.PUT("/:id", r.EventController.UpdateEvent, organizer)
	events.DELETE("/:id", r.EventController.DeleteEvent, organizer)
	events.POST("/:id/finalize", r.EventController.Finalize, organizer)
}
