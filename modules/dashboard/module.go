package dashboard

import (
	"time"

	"meetgrid/core/cache"
	"meetgrid/core/middleware"
	"meetgrid/modules/dashboard/controller"
	"meetgrid/modules/dashboard/repository"
	"meetgrid/modules/dashboard/router"
	"meetgrid/modules/dashboard/service"

	"github.com/labstack/echo/v4"
)

// Init wires the dashboard over the event store and the key/value cache.
func Init(g *echo.Group, events service.EventLister, kv cache.Cache, mw *middleware.Middleware, loc *time.Location) *service.DashboardService {
	repo := repository.NewStateRepository(kv)
	svc := service.NewDashboardService(events, repo, loc)
	ctrl := controller.NewDashboardController(svc)
	r := router.NewDashboardRouter(ctrl)

	r.Register(g, mw)

	return svc
}
