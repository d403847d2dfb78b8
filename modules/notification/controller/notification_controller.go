package controller

import (
	"meetgrid/core/controller"
	"meetgrid/core/errors"
	"meetgrid/core/params"
	"meetgrid/modules/notification/dto"
	"meetgrid/modules/notification/service"

	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	service *service.NotificationService
	controller.BaseController
}

func NewNotificationController(service *service.NotificationService) *NotificationController {
	return &NotificationController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// List returns the outbox, newest first
// @Summary List notifications
// @Tags Notification
// @Security AdminToken
// @Produce json
// @Param status query string false "pending | sending | sent | failed"
// @Param page_number query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} entity.PaginatedNotificationEntity
// @Router /notifications [get]
func (c *NotificationController) List(ctx echo.Context) error {
	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.service.List(ctx.Request().Context(), *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Notifications retrieved successfully")
}

// Dispatch runs one outbox pass immediately
// @Summary Dispatch pending notifications
// @Tags Notification
// @Security AdminToken
// @Accept json
// @Produce json
// @Param request body dto.DispatchRequest false "Batch size"
// @Success 200 {object} dto.DispatchResult
// @Router /notifications/dispatch [post]
func (c *NotificationController) Dispatch(ctx echo.Context) error {
	req := new(dto.DispatchRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, err := c.service.DispatchPending(ctx.Request().Context(), req.Limit)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to dispatch notifications")
	}

	return c.SuccessResponse(ctx, result, "Dispatch complete")
}
