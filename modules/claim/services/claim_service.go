package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
	"github.com/crewdir/crewdir/modules/claim/domain/aggregates/claim"
	"github.com/crewdir/crewdir/pkg/eventbus"
)

// ClaimDecidedEvent is published when an operator approves or rejects a
// claim.
type ClaimDecidedEvent struct {
	ID       uuid.UUID
	AgencyID uuid.UUID
	Status   claim.Status
}

type ClaimService struct {
	claims    claim.Repository
	agencies  agency.Repository
	publisher eventbus.EventBus
}

func NewClaimService(claims claim.Repository, agencies agency.Repository, publisher eventbus.EventBus) *ClaimService {
	return &ClaimService{claims: claims, agencies: agencies, publisher: publisher}
}

func (s *ClaimService) GetPaginated(ctx context.Context, params *claim.FindParams) ([]claim.Claim, int64, error) {
	return s.claims.GetPaginated(ctx, params)
}

func (s *ClaimService) GetByID(ctx context.Context, id uuid.UUID) (claim.Claim, error) {
	return s.claims.GetByID(ctx, id)
}

// Submit opens a pending claim against an agency. The agency must exist;
// the unique index on (agency_id, claimant_subject) where status='pending'
// enforces one open claim per agency and claimant.
func (s *ClaimService) Submit(ctx context.Context, agencyID uuid.UUID, claimantSubject string, dto *claim.CreateDTO) (claim.Claim, error) {
	if dto == nil {
		return claim.Claim{}, errors.New("missing dto")
	}
	if _, err := s.agencies.GetByID(ctx, agencyID); err != nil {
		return claim.Claim{}, err
	}
	return s.claims.Create(ctx, dto.ToEntity(agencyID, claimantSubject))
}

// Approve grants the claim and moves the agency out of pending_claim.
func (s *ClaimService) Approve(ctx context.Context, id uuid.UUID) (claim.Claim, error) {
	decided, err := s.claims.Decide(ctx, id, claim.StatusApproved)
	if err != nil {
		return claim.Claim{}, err
	}

	if a, err := s.agencies.GetByID(ctx, decided.AgencyID()); err == nil && a.Status() == agency.StatusPendingClaim {
		if _, err := s.agencies.SetStatus(ctx, decided.AgencyID(), agency.StatusActive); err != nil {
			return claim.Claim{}, errors.Wrap(err, "activating claimed agency")
		}
	}

	s.publish(decided)
	return decided, nil
}

func (s *ClaimService) Reject(ctx context.Context, id uuid.UUID) (claim.Claim, error) {
	decided, err := s.claims.Decide(ctx, id, claim.StatusRejected)
	if err != nil {
		return claim.Claim{}, err
	}
	s.publish(decided)
	return decided, nil
}

func (s *ClaimService) publish(c claim.Claim) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(&ClaimDecidedEvent{ID: c.ID(), AgencyID: c.AgencyID(), Status: c.Status()})
}
