package router

import (
	"meetgrid/core/middleware"
	"meetgrid/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	controller *controller.NotificationController
}

func NewNotificationRouter(controller *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{controller: controller}
}

func (r *NotificationRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	group := g.Group("/notifications", mw.AdminMiddleware())
	group.GET("", r.controller.List)
	group.POST("/dispatch", r.controller.Dispatch)
}
