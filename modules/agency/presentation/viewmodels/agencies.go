package viewmodels

import "time"

type Agency struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Website         string     `json:"website,omitempty"`
	City            string     `json:"city,omitempty"`
	Region          string     `json:"region,omitempty"`
	Trades          []string   `json:"trades,omitempty"`
	CompanySize     string     `json:"company_size,omitempty"`
	LicenseNumber   string     `json:"license_number,omitempty"`
	LicenseExpiry   *time.Time `json:"license_expiry,omitempty"`
	InsuranceExpiry *time.Time `json:"insurance_expiry,omitempty"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type AgencyList struct {
	Items []Agency `json:"items"`
	Total int64    `json:"total"`
}
