package agency

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewdir/crewdir/pkg/serrors"
)

var (
	ErrNotFound  = serrors.NewError("AGENCY_NOT_FOUND", "agency not found")
	ErrNameTaken = serrors.NewError("AGENCY_NAME_TAKEN", "agency name already exists")
)

type FindParams struct {
	Q      string
	Trade  string
	Status Status
	Limit  int
	Offset int
}

// UpdateParams is a partial update: nil fields keep their stored value.
// Field names follow the API's snake_case wire convention.
type UpdateParams struct {
	Email         *string   `json:"email"`
	Phone         *string   `json:"phone"`
	Website       *string   `json:"website"`
	City          *string   `json:"city"`
	Region        *string   `json:"region"`
	Trades        *[]string `json:"trades"`
	CompanySize   *string   `json:"company_size"`
	LicenseNumber *string   `json:"license_number"`
	Description   *string   `json:"description"`
	Status        *Status   `json:"status"`
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Agency, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Agency, error)
	// ActiveNames returns the names of all non-deleted agencies, the
	// reference set for duplicate warnings during import preview.
	ActiveNames(ctx context.Context) ([]string, error)
	// FindIDByNormalizedName looks up a non-deleted agency by its
	// duplicate-detection identity.
	FindIDByNormalizedName(ctx context.Context, normalizedName string) (uuid.UUID, bool, error)
	Create(ctx context.Context, a Agency) (Agency, error)
	Update(ctx context.Context, id uuid.UUID, params *UpdateParams) (Agency, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (Agency, error)
}
