package dto

import (
	"time"

	"meetgrid/modules/invitation/entity"

	"github.com/google/uuid"
)

type CreateInvitationRequest struct {
	Email string `json:"email"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type InvitationResponse struct {
	ID        uuid.UUID `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvitationListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
	Total       int                  `json:"total"`
	Accepted    int                  `json:"accepted"`
	Declined    int                  `json:"declined"`
	Pending     int                  `json:"pending"`
}

func ToInvitationResponse(inv *entity.EventInvitation) *InvitationResponse {
	return &InvitationResponse{
		ID:        inv.ID,
		EventID:   inv.EventID,
		Email:     inv.Email,
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func ToInvitationListResponse(invitations []entity.EventInvitation) *InvitationListResponse {
	resp := &InvitationListResponse{Invitations: make([]InvitationResponse, 0, len(invitations))}
	for i := range invitations {
		resp.Invitations = append(resp.Invitations, *ToInvitationResponse(&invitations[i]))
		switch invitations[i].Status {
		case entity.InvitationStatusAccepted:
			resp.Accepted++
		case entity.InvitationStatusDeclined:
			resp.Declined++
		default:
			resp.Pending++
		}
	}
	resp.Total = len(invitations)
	return resp
}
