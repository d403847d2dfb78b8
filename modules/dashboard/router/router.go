package router

import (
	"meetgrid/core/middleware"
	"meetgrid/modules/dashboard/controller"

	"github.com/labstack/echo/v4"
)

type DashboardRouter struct {
	controller *controller.DashboardController
}

func NewDashboardRouter(controller *controller.DashboardController) *DashboardRouter {
	return &DashboardRouter{controller: controller}
}

func (r *DashboardRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	group := g.Group("/dashboard/events", mw.AdminMiddleware())
	group.GET("", r.controller.ListEvents)
	group.POST("/:id/hide", r.controller.HideEvent)
	group.POST("/:id/restore", r.controller.RestoreEvent)
	group.PUT("/:id/override", r.controller.SetOverride)
	group.DELETE("/:id/override", r.controller.ClearOverride)
}
