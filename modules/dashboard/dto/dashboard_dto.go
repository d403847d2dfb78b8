package dto

type ListEventsQuery struct {
	Status string `query:"status"`
	Q      string `query:"q"`
}

type OverrideRequest struct {
	Name         *string `json:"name"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Participants *int    `json:"participants"`
}

type DashboardEventResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Participants int    `json:"participants"`
	Status       string `json:"status"`
	Edited       bool   `json:"edited"`
}

type DashboardCounts struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
	Hidden    int `json:"hidden"`
}

type DashboardListResponse struct {
	Events []DashboardEventResponse `json:"events"`
	Counts DashboardCounts          `json:"counts"`
}
