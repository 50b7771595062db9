package viewmodels

import "time"

type Claim struct {
	ID              string     `json:"id"`
	AgencyID        string     `json:"agency_id"`
	ClaimantSubject string     `json:"claimant_subject"`
	ClaimantEmail   string     `json:"claimant_email"`
	Message         string     `json:"message,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
}

type ClaimList struct {
	Items []Claim `json:"items"`
	Total int64   `json:"total"`
}
