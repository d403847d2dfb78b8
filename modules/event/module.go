package event

import (
	"meetgrid/core/database"
	"meetgrid/core/middleware"
	"meetgrid/modules/event/controller"
	"meetgrid/modules/event/realtime"
	"meetgrid/modules/event/repository"
	"meetgrid/modules/event/router"
	"meetgrid/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Module exposes the pieces other modules and the server depend on.
type Module struct {
	Repository repository.EventRepositoryInterface
	Service    *service.EventService
	Hub        *realtime.Hub
}

// NewRepository returns the PostgreSQL repository, or the in-memory one when
// db is nil.
func NewRepository(db database.IDatabase) repository.EventRepositoryInterface {
	if db == nil {
		return repository.NewMemoryEventRepository()
	}
	return repository.NewEventRepository(db)
}

// Init initializes the event module and registers routes
func Init(e *echo.Echo, repo repository.EventRepositoryInterface, mw *middleware.Middleware, opts service.Options) *Module {
	hub := realtime.NewHub()
	opts.Publisher = hub

	svc := service.NewEventService(repo, opts)
	ctrl := controller.NewEventController(svc, hub)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)

	return &Module{
		Repository: repo,
		Service:    svc,
		Hub:        hub,
	}
}
