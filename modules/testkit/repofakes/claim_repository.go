package repofakes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crewdir/crewdir/modules/claim/domain/aggregates/claim"
)

// ClaimRepository is an in-memory claim.Repository enforcing the one open
// claim per agency+claimant rule.
type ClaimRepository struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]claim.Claim
	order []uuid.UUID
}

func NewClaimRepository() *ClaimRepository {
	return &ClaimRepository{byID: map[uuid.UUID]claim.Claim{}}
}

func (r *ClaimRepository) GetPaginated(_ context.Context, params *claim.FindParams) ([]claim.Claim, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if params == nil {
		params = &claim.FindParams{}
	}
	matched := make([]claim.Claim, 0, len(r.order))
	for _, id := range r.order {
		c := r.byID[id]
		if params.Status != "" && c.Status() != params.Status {
			continue
		}
		if params.AgencyID != uuid.Nil && c.AgencyID() != params.AgencyID {
			continue
		}
		matched = append(matched, c)
	}
	return matched, int64(len(matched)), nil
}

func (r *ClaimRepository) GetByID(_ context.Context, id uuid.UUID) (claim.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return claim.Claim{}, claim.ErrNotFound
	}
	return c, nil
}

func (r *ClaimRepository) Create(_ context.Context, c claim.Claim) (claim.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		existing := r.byID[id]
		if existing.Status() == claim.StatusPending &&
			existing.AgencyID() == c.AgencyID() &&
			existing.ClaimantSubject() == c.ClaimantSubject() {
			return claim.Claim{}, claim.ErrAlreadyPending
		}
	}
	r.byID[c.ID()] = c
	r.order = append(r.order, c.ID())
	return c, nil
}

func (r *ClaimRepository) Decide(_ context.Context, id uuid.UUID, status claim.Status) (claim.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return claim.Claim{}, claim.ErrNotFound
	}
	if c.Status() != claim.StatusPending {
		return claim.Claim{}, claim.ErrAlreadyDecided
	}

	now := time.Now()
	decided := claim.Hydrate(claim.HydrateParams{
		ID:              c.ID(),
		AgencyID:        c.AgencyID(),
		ClaimantSubject: c.ClaimantSubject(),
		ClaimantEmail:   c.ClaimantEmail(),
		Message:         c.Message(),
		Status:          status,
		CreatedAt:       c.CreatedAt(),
		DecidedAt:       &now,
	})
	r.byID[id] = decided
	return decided, nil
}
