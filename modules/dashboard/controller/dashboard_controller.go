package controller

import (
	"meetgrid/core/controller"
	"meetgrid/core/errors"
	"meetgrid/modules/dashboard/dto"
	"meetgrid/modules/dashboard/service"

	"github.com/labstack/echo/v4"
)

type DashboardController struct {
	service *service.DashboardService
	controller.BaseController
}

func NewDashboardController(service *service.DashboardService) *DashboardController {
	return &DashboardController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// ListEvents godoc
// @Summary Dashboard event list
// @Tags Dashboard
// @Security AdminToken
// @Produce json
// @Param status query string false "all | upcoming | completed | cancelled"
// @Param q query string false "Name search"
// @Success 200 {object} dto.DashboardListResponse
// @Router /dashboard/events [get]
func (c *DashboardController) ListEvents(ctx echo.Context) error {
	var query dto.ListEventsQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid query parameters")
	}

	result, appErr := c.service.ListEvents(ctx.Request().Context(), &query)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// HideEvent godoc
// @Summary Hide an event from the dashboard
// @Tags Dashboard
// @Security AdminToken
// @Param id path string true "Event ID"
// @Router /dashboard/events/{id}/hide [post]
func (c *DashboardController) HideEvent(ctx echo.Context) error {
	if appErr := c.service.Hide(ctx.Request().Context(), ctx.Param("id")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Event hidden")
}

// RestoreEvent godoc
// @Summary Restore a hidden event
// @Tags Dashboard
// @Security AdminToken
// @Param id path string true "Event ID"
// @Router /dashboard/events/{id}/restore [post]
func (c *DashboardController) RestoreEvent(ctx echo.Context) error {
	if appErr := c.service.Restore(ctx.Request().Context(), ctx.Param("id")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Event restored")
}

// SetOverride godoc
// @Summary Edit how an event is shown on the dashboard
// @Tags Dashboard
// @Security AdminToken
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.OverrideRequest true "Partial override"
// @Success 200 {object} dto.DashboardEventResponse
// @Router /dashboard/events/{id}/override [put]
func (c *DashboardController) SetOverride(ctx echo.Context) error {
	var req dto.OverrideRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.SetOverride(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Override saved")
}

// ClearOverride godoc
// @Summary Drop the dashboard override of an event
// @Tags Dashboard
// @Security AdminToken
// @Param id path string true "Event ID"
// @Router /dashboard/events/{id}/override [delete]
func (c *DashboardController) ClearOverride(ctx echo.Context) error {
	if appErr := c.service.ClearOverride(ctx.Request().Context(), ctx.Param("id")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Override cleared")
}
