package notification

import (
	"meetgrid/core/database"
	"meetgrid/core/mail"
	"meetgrid/core/middleware"
	"meetgrid/modules/notification/controller"
	"meetgrid/modules/notification/repository"
	"meetgrid/modules/notification/router"
	"meetgrid/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init wires the outbox and returns the service so other modules can queue
// emails and the scheduler can dispatch them. A nil db selects in-memory
// storage.
func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware, mailer mail.Mailer) *service.NotificationService {
	var repo repository.NotificationRepositoryInterface
	if db == nil {
		repo = repository.NewMemoryNotificationRepository()
	} else {
		repo = repository.NewNotificationRepository(db)
	}

	svc := service.NewNotificationService(repo, mailer)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(g, mw)

	return svc
}
