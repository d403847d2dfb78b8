package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"meetgrid/core/entity"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSending NotificationStatus = "sending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

const (
	TypeInvite         = "invite"
	TypeEventScheduled = "event_scheduled"
)

// Notification is one outbound email waiting in (or done with) the outbox.
type Notification struct {
	Recipient string             `db:"recipient" json:"recipient"`
	Subject   string             `db:"subject" json:"subject"`
	Body      string             `db:"body" json:"body"`
	Type      string             `db:"type" json:"type"`
	Data      JSONB              `db:"data" json:"data"`
	Status    NotificationStatus `db:"status" json:"status"`
	Attempts  int                `db:"attempts" json:"attempts"`
	LastError string             `db:"last_error" json:"last_error,omitempty"`
	SentAt    *time.Time         `db:"sent_at" json:"sent_at,omitempty"`
	entity.BaseEntity
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
