// Package repofakes provides in-memory repository implementations for
// service and controller tests that do not need a live database.
package repofakes

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
)

// AgencyRepository is an in-memory agency.Repository. It enforces the same
// normalized-name uniqueness the database backstop does, and lets tests
// inject errors per method.
type AgencyRepository struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]agency.Agency
	order    []uuid.UUID
	CreateFn func(ctx context.Context, a agency.Agency) (agency.Agency, error)
	FindErr  error
	NamesErr error
}

func NewAgencyRepository() *AgencyRepository {
	return &AgencyRepository{byID: map[uuid.UUID]agency.Agency{}}
}

// Seed inserts an agency bypassing uniqueness checks.
func (r *AgencyRepository) Seed(a agency.Agency) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID()] = a
	r.order = append(r.order, a.ID())
}

func (r *AgencyRepository) GetPaginated(_ context.Context, params *agency.FindParams) ([]agency.Agency, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if params == nil {
		params = &agency.FindParams{}
	}
	matched := make([]agency.Agency, 0, len(r.order))
	for _, id := range r.order {
		a := r.byID[id]
		if params.Q != "" && !strings.Contains(strings.ToLower(a.Name()), strings.ToLower(params.Q)) {
			continue
		}
		if params.Status != "" && a.Status() != params.Status {
			continue
		}
		matched = append(matched, a)
	}
	total := int64(len(matched))

	offset := params.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if params.Limit > 0 && len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	return matched, total, nil
}

func (r *AgencyRepository) GetByID(_ context.Context, id uuid.UUID) (agency.Agency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return agency.Agency{}, agency.ErrNotFound
	}
	return a, nil
}

func (r *AgencyRepository) ActiveNames(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.NamesErr != nil {
		return nil, r.NamesErr
	}
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		names = append(names, r.byID[id].Name())
	}
	return names, nil
}

func (r *AgencyRepository) FindIDByNormalizedName(_ context.Context, normalizedName string) (uuid.UUID, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FindErr != nil {
		return uuid.Nil, false, r.FindErr
	}
	for _, id := range r.order {
		if r.byID[id].NormalizedName() == normalizedName {
			return id, true, nil
		}
	}
	return uuid.Nil, false, nil
}

func (r *AgencyRepository) Create(ctx context.Context, a agency.Agency) (agency.Agency, error) {
	if r.CreateFn != nil {
		return r.CreateFn(ctx, a)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		if r.byID[id].NormalizedName() == a.NormalizedName() {
			return agency.Agency{}, agency.ErrNameTaken
		}
	}

	// The database assigns id and timestamps; mirror that here.
	now := time.Now()
	created := agency.Hydrate(agency.HydrateParams{
		ID:              uuid.New(),
		Name:            a.Name(),
		Email:           a.Email(),
		Phone:           a.Phone(),
		Website:         a.Website(),
		City:            a.City(),
		Region:          a.Region(),
		Trades:          a.Trades(),
		CompanySize:     a.CompanySize(),
		LicenseNumber:   a.LicenseNumber(),
		LicenseExpiry:   a.LicenseExpiry(),
		InsuranceExpiry: a.InsuranceExpiry(),
		Description:     a.Description(),
		Status:          a.Status(),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	r.byID[created.ID()] = created
	r.order = append(r.order, created.ID())
	return created, nil
}

func (r *AgencyRepository) Update(_ context.Context, id uuid.UUID, params *agency.UpdateParams) (agency.Agency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return agency.Agency{}, agency.ErrNotFound
	}
	if params == nil {
		params = &agency.UpdateParams{}
	}

	// Mirror the database's COALESCE semantics: nil keeps the stored value.
	hp := agency.HydrateParams{
		ID:              a.ID(),
		Name:            a.Name(),
		Email:           a.Email(),
		Phone:           a.Phone(),
		Website:         a.Website(),
		City:            a.City(),
		Region:          a.Region(),
		Trades:          a.Trades(),
		CompanySize:     a.CompanySize(),
		LicenseNumber:   a.LicenseNumber(),
		LicenseExpiry:   a.LicenseExpiry(),
		InsuranceExpiry: a.InsuranceExpiry(),
		Description:     a.Description(),
		Status:          a.Status(),
		CreatedAt:       a.CreatedAt(),
		UpdatedAt:       time.Now(),
	}
	if params.Email != nil {
		hp.Email = *params.Email
	}
	if params.Phone != nil {
		hp.Phone = *params.Phone
	}
	if params.Website != nil {
		hp.Website = *params.Website
	}
	if params.City != nil {
		hp.City = *params.City
	}
	if params.Region != nil {
		hp.Region = *params.Region
	}
	if params.Trades != nil {
		hp.Trades = *params.Trades
	}
	if params.CompanySize != nil {
		hp.CompanySize = *params.CompanySize
	}
	if params.LicenseNumber != nil {
		hp.LicenseNumber = *params.LicenseNumber
	}
	if params.Description != nil {
		hp.Description = *params.Description
	}
	if params.Status != nil {
		hp.Status = *params.Status
	}

	updated := agency.Hydrate(hp)
	r.byID[id] = updated
	return updated, nil
}

func (r *AgencyRepository) SetStatus(_ context.Context, id uuid.UUID, status agency.Status) (agency.Agency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return agency.Agency{}, agency.ErrNotFound
	}
	updated := agency.Hydrate(agency.HydrateParams{
		ID:              a.ID(),
		Name:            a.Name(),
		Email:           a.Email(),
		Phone:           a.Phone(),
		Website:         a.Website(),
		City:            a.City(),
		Region:          a.Region(),
		Trades:          a.Trades(),
		CompanySize:     a.CompanySize(),
		LicenseNumber:   a.LicenseNumber(),
		LicenseExpiry:   a.LicenseExpiry(),
		InsuranceExpiry: a.InsuranceExpiry(),
		Description:     a.Description(),
		Status:          status,
		CreatedAt:       a.CreatedAt(),
		UpdatedAt:       a.UpdatedAt(),
	})
	r.byID[id] = updated
	return updated, nil
}
