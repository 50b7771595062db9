package claim

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewdir/crewdir/pkg/serrors"
)

var (
	ErrNotFound       = serrors.NewError("CLAIM_NOT_FOUND", "claim not found")
	ErrAlreadyPending = serrors.NewError("CLAIM_ALREADY_PENDING", "a pending claim for this agency already exists")
	ErrAlreadyDecided = serrors.NewError("CLAIM_ALREADY_DECIDED", "claim has already been decided")
)

type FindParams struct {
	AgencyID uuid.UUID
	Status   Status
	Limit    int
	Offset   int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Claim, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Claim, error)
	Create(ctx context.Context, c Claim) (Claim, error)
	Decide(ctx context.Context, id uuid.UUID, status Status) (Claim, error)
}
