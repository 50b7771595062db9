package laborrequest

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewdir/crewdir/pkg/serrors"
)

var (
	ErrNotFound          = serrors.NewError("LABOR_REQUEST_NOT_FOUND", "labor request not found")
	ErrInvalidTransition = serrors.NewError("LABOR_REQUEST_INVALID_TRANSITION", "status transition not allowed")
)

type FindParams struct {
	Status Status
	Trade  string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]LaborRequest, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (LaborRequest, error)
	Create(ctx context.Context, r LaborRequest) (LaborRequest, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (LaborRequest, error)
}
