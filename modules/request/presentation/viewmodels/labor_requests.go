package viewmodels

import "time"

type LaborRequest struct {
	ID             string    `json:"id"`
	RequesterName  string    `json:"requester_name"`
	RequesterEmail string    `json:"requester_email"`
	RequesterPhone string    `json:"requester_phone,omitempty"`
	Trade          string    `json:"trade"`
	Headcount      int       `json:"headcount"`
	StartDate      time.Time `json:"start_date"`
	DurationWeeks  int       `json:"duration_weeks,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type LaborRequestList struct {
	Items []LaborRequest `json:"items"`
	Total int64          `json:"total"`
}
