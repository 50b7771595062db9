package claim

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Claim is a request by an agency representative to take ownership of a
// directory record. At most one pending claim may exist per agency and
// claimant.
type Claim struct {
	id              uuid.UUID
	agencyID        uuid.UUID
	claimantSubject string
	claimantEmail   string
	message         string
	status          Status
	createdAt       time.Time
	decidedAt       *time.Time
}

func New(agencyID uuid.UUID, claimantSubject, claimantEmail string) Claim {
	return Claim{
		id:              uuid.New(),
		agencyID:        agencyID,
		claimantSubject: claimantSubject,
		claimantEmail:   claimantEmail,
		status:          StatusPending,
		createdAt:       time.Now(),
	}
}

type HydrateParams struct {
	ID              uuid.UUID
	AgencyID        uuid.UUID
	ClaimantSubject string
	ClaimantEmail   string
	Message         string
	Status          Status
	CreatedAt       time.Time
	DecidedAt       *time.Time
}

func Hydrate(p HydrateParams) Claim {
	return Claim{
		id:              p.ID,
		agencyID:        p.AgencyID,
		claimantSubject: p.ClaimantSubject,
		claimantEmail:   p.ClaimantEmail,
		message:         p.Message,
		status:          p.Status,
		createdAt:       p.CreatedAt,
		decidedAt:       p.DecidedAt,
	}
}

func (c Claim) ID() uuid.UUID           { return c.id }
func (c Claim) AgencyID() uuid.UUID     { return c.agencyID }
func (c Claim) ClaimantSubject() string { return c.claimantSubject }
func (c Claim) ClaimantEmail() string   { return c.claimantEmail }
func (c Claim) Message() string         { return c.message }
func (c Claim) Status() Status          { return c.status }
func (c Claim) CreatedAt() time.Time    { return c.createdAt }
func (c Claim) DecidedAt() *time.Time   { return c.decidedAt }
