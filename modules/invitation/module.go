package invitation

import (
	"meetgrid/core/database"
	"meetgrid/core/middleware"
	"meetgrid/modules/invitation/controller"
	"meetgrid/modules/invitation/repository"
	"meetgrid/modules/invitation/router"
	"meetgrid/modules/invitation/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the invitation module and returns the service for use by other modules.
// A nil db selects in-memory storage.
func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware, events service.EventReader, notifier service.Notifier, baseURL string) *service.InvitationService {
	var repo repository.InvitationRepositoryInterface
	if db == nil {
		repo = repository.NewMemoryInvitationRepository()
	} else {
		repo = repository.NewInvitationRepository(db)
	}

	svc := service.NewInvitationService(repo, events, notifier, baseURL)
	ctrl := controller.NewInvitationController(svc)
	r := router.NewInvitationRouter(ctrl)

	r.Register(g, mw)

	return svc
}
