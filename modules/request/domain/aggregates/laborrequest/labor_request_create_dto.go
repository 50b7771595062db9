package laborrequest

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/crewdir/crewdir/pkg/constants"
	"github.com/crewdir/crewdir/pkg/serrors"
)

type CreateDTO struct {
	RequesterName  string     `json:"requester_name" validate:"required,max=200"`
	RequesterEmail string     `json:"requester_email" validate:"required,email,max=254"`
	RequesterPhone string     `json:"requester_phone" validate:"omitempty,e164"`
	Trade          string     `json:"trade" validate:"required,max=100"`
	Headcount      int        `json:"headcount" validate:"required,min=1,max=500"`
	StartDate      *time.Time `json:"start_date" validate:"required"`
	DurationWeeks  int        `json:"duration_weeks" validate:"omitempty,min=1,max=260"`
	Notes          string     `json:"notes" validate:"omitempty,max=2000"`
}

func (d *CreateDTO) Normalize() {
	d.RequesterName = strings.TrimSpace(d.RequesterName)
	d.RequesterEmail = strings.TrimSpace(d.RequesterEmail)
	d.RequesterPhone = strings.TrimSpace(d.RequesterPhone)
	d.Trade = strings.TrimSpace(d.Trade)
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	err := constants.Validate.Struct(d)
	if err == nil {
		return serrors.ValidationErrors{}, true
	}
	verrs := err.(validator.ValidationErrors)
	return serrors.ProcessValidatorErrors(verrs, nil), false
}

func (d *CreateDTO) ToEntity() LaborRequest {
	r := New(d.RequesterName, d.RequesterEmail)
	r.requesterPhone = d.RequesterPhone
	r.trade = d.Trade
	r.headcount = d.Headcount
	if d.StartDate != nil {
		r.startDate = *d.StartDate
	}
	r.durationWeeks = d.DurationWeeks
	r.notes = d.Notes
	return r
}
