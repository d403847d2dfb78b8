package controller

import (
	"meetgrid/core/controller"
	"meetgrid/core/errors"
	"meetgrid/modules/invitation/dto"
	"meetgrid/modules/invitation/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type InvitationController struct {
	controller.BaseController
	service *service.InvitationService
}

func NewInvitationController(service *service.InvitationService) *InvitationController {
	return &InvitationController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// CreateInvitation handles POST /events/:id/invites
// @Summary Invite by email
// @Tags Invitation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.CreateInvitationRequest true "Email"
// @Success 201 {object} dto.InvitationResponse
// @Failure 400 {object} errors.AppError
// @Router /events/{id}/invites [post]
func (c *InvitationController) CreateInvitation(ctx echo.Context) error {
	var req dto.CreateInvitationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.CreateInvitation(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Invitation sent")
}

// ListInvitations handles GET /events/:id/invites
// @Summary List invitations
// @Tags Invitation
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.InvitationListResponse
// @Router /events/{id}/invites [get]
func (c *InvitationController) ListInvitations(ctx echo.Context) error {
	result, appErr := c.service.ListInvitations(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// DeleteInvitation handles DELETE /events/:id/invites/:inviteId
// @Summary Remove an invitation
// @Tags Invitation
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param inviteId path string true "Invitation ID"
// @Success 200 {object} map[string]string
// @Router /events/{id}/invites/{inviteId} [delete]
func (c *InvitationController) DeleteInvitation(ctx echo.Context) error {
	invitationID, err := uuid.Parse(ctx.Param("inviteId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid invitation ID")
	}

	if appErr := c.service.DeleteInvitation(ctx.Request().Context(), ctx.Param("id"), invitationID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Invitation removed")
}

// UpdateStatus handles PUT /events/:id/invites/:inviteId/status
// @Summary Set invitation status
// @Tags Invitation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param inviteId path string true "Invitation ID"
// @Param request body dto.UpdateStatusRequest true "pending | accepted | declined"
// @Success 200 {object} dto.InvitationResponse
// @Router /events/{id}/invites/{inviteId}/status [put]
func (c *InvitationController) UpdateStatus(ctx echo.Context) error {
	invitationID, err := uuid.Parse(ctx.Param("inviteId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid invitation ID")
	}

	var req dto.UpdateStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), invitationID, req.Status)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Invitation updated")
}

// Respond handles POST /invites/:inviteId/respond
// @Summary Accept or decline an invitation
// @Tags Invitation
// @Accept json
// @Produce json
// @Param inviteId path string true "Invitation ID"
// @Param request body dto.UpdateStatusRequest true "accepted | declined"
// @Success 200 {object} dto.InvitationResponse
// @Router /invites/{inviteId}/respond [post]
func (c *InvitationController) Respond(ctx echo.Context) error {
	invitationID, err := uuid.Parse(ctx.Param("inviteId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid invitation ID")
	}

	var req dto.UpdateStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.Respond(ctx.Request().Context(), invitationID, req.Status)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Response recorded")
}
