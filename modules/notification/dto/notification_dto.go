package dto

type CreateNotificationRequest struct {
	Recipient string                 `json:"recipient"`
	Subject   string                 `json:"subject"`
	Body      string                 `json:"body"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
}

type DispatchRequest struct {
	Limit int `json:"limit"`
}

// DispatchResult counts what one outbox pass did.
type DispatchResult struct {
	Sent     int `json:"sent"`
	Retrying int `json:"retrying"`
	Failed   int `json:"failed"`
}
