package claim

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/crewdir/crewdir/pkg/constants"
	"github.com/crewdir/crewdir/pkg/serrors"
)

type CreateDTO struct {
	ClaimantEmail string `json:"claimant_email" validate:"required,email,max=254"`
	Message       string `json:"message" validate:"omitempty,max=2000"`
}

func (d *CreateDTO) Normalize() {
	d.ClaimantEmail = strings.TrimSpace(d.ClaimantEmail)
	d.Message = strings.TrimSpace(d.Message)
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

// ToEntity builds the pending claim; the claimant subject comes from the
// authenticated operator context, not the request body.
func (d *CreateDTO) ToEntity(agencyID uuid.UUID, claimantSubject string) Claim {
	c := New(agencyID, claimantSubject, d.ClaimantEmail)
	c.message = d.Message
	return c
}
