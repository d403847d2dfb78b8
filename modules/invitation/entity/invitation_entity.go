package entity

import "meetgrid/core/entity"

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
)

func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationStatusPending, InvitationStatusAccepted, InvitationStatusDeclined:
		return true
	}
	return false
}

// EventInvitation is an email address invited to one event. Emails are unique
// per event regardless of case.
type EventInvitation struct {
	EventID string           `db:"event_id" json:"event_id"`
	Email   string           `db:"email" json:"email"`
	Status  InvitationStatus `db:"status" json:"status"`
	entity.BaseEntity
}
