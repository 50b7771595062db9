package agency

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/crewdir/crewdir/pkg/constants"
	"github.com/crewdir/crewdir/pkg/serrors"
)

type CreateDTO struct {
	Name            string     `json:"name" validate:"required,max=200"`
	Email           string     `json:"email" validate:"omitempty,email,max=254"`
	Phone           string     `json:"phone" validate:"omitempty,e164"`
	Website         string     `json:"website" validate:"omitempty,url,max=255"`
	City            string     `json:"city" validate:"omitempty,max=100"`
	Region          string     `json:"region" validate:"omitempty,max=100"`
	Trades          []string   `json:"trades" validate:"omitempty,max=25,dive,required,max=100"`
	CompanySize     string     `json:"company_size" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 500+"`
	LicenseNumber   string     `json:"license_number" validate:"omitempty,max=100"`
	LicenseExpiry   *time.Time `json:"license_expiry"`
	InsuranceExpiry *time.Time `json:"insurance_expiry"`
	Description     string     `json:"description" validate:"omitempty,max=2000"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Website = strings.TrimSpace(d.Website)
	d.City = strings.TrimSpace(d.City)
	d.Region = strings.TrimSpace(d.Region)
	d.CompanySize = strings.TrimSpace(d.CompanySize)
	d.LicenseNumber = strings.TrimSpace(d.LicenseNumber)
	d.Description = strings.TrimSpace(d.Description)
	trades := d.Trades[:0]
	for _, t := range d.Trades {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			trades = append(trades, trimmed)
		}
	}
	d.Trades = trades
}

// Ok validates the DTO, returning per-field messages when it fails.
func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	err := constants.Validate.Struct(d)
	if err == nil {
		return serrors.ValidationErrors{}, true
	}
	verrs := err.(validator.ValidationErrors)
	return serrors.ProcessValidatorErrors(verrs, nil), false
}

// ToEntity builds the aggregate for persistence.
func (d *CreateDTO) ToEntity() Agency {
	a := New(d.Name)
	a.email = d.Email
	a.phone = d.Phone
	a.website = d.Website
	a.city = d.City
	a.region = d.Region
	a.trades = d.Trades
	a.companySize = d.CompanySize
	a.licenseNumber = d.LicenseNumber
	a.licenseExpiry = d.LicenseExpiry
	a.insuranceExpiry = d.InsuranceExpiry
	a.description = d.Description
	return a
}
