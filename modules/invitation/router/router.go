package router

import (
	"meetgrid/core/middleware"
	"meetgrid/modules/invitation/controller"

	"github.com/labstack/echo/v4"
)

type InvitationRouter struct {
	controller *controller.InvitationController
}

func NewInvitationRouter(controller *controller.InvitationController) *InvitationRouter {
	return &InvitationRouter{
		controller: controller,
	}
}

func (r *InvitationRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	invites := g.Group("/events/:id/invites")
	invites.Use(mw.OrganizerMiddleware())

	invites.POST("", r.controller.CreateInvitation)
	invites.GET("", r.controller.ListInvitations)
	invites.DELETE("/:inviteId", r.controller.DeleteInvitation)
	invites.PUT("/:inviteId/status", r.controller.UpdateStatus)

	g.POST("/invites/:inviteId/respond", r.controller.Respond, mw.RateLimit())
}
