package repofakes

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/crewdir/crewdir/modules/request/domain/aggregates/laborrequest"
)

// LaborRequestRepository is an in-memory laborrequest.Repository.
type LaborRequestRepository struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]laborrequest.LaborRequest
	order []uuid.UUID
}

func NewLaborRequestRepository() *LaborRequestRepository {
	return &LaborRequestRepository{byID: map[uuid.UUID]laborrequest.LaborRequest{}}
}

func (r *LaborRequestRepository) GetPaginated(_ context.Context, params *laborrequest.FindParams) ([]laborrequest.LaborRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if params == nil {
		params = &laborrequest.FindParams{}
	}
	matched := make([]laborrequest.LaborRequest, 0, len(r.order))
	for _, id := range r.order {
		lr := r.byID[id]
		if params.Status != "" && lr.Status() != params.Status {
			continue
		}
		matched = append(matched, lr)
	}
	return matched, int64(len(matched)), nil
}

func (r *LaborRequestRepository) GetByID(_ context.Context, id uuid.UUID) (laborrequest.LaborRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lr, ok := r.byID[id]
	if !ok {
		return laborrequest.LaborRequest{}, laborrequest.ErrNotFound
	}
	return lr, nil
}

func (r *LaborRequestRepository) Create(_ context.Context, lr laborrequest.LaborRequest) (laborrequest.LaborRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[lr.ID()] = lr
	r.order = append(r.order, lr.ID())
	return lr, nil
}

func (r *LaborRequestRepository) SetStatus(_ context.Context, id uuid.UUID, status laborrequest.Status) (laborrequest.LaborRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lr, ok := r.byID[id]
	if !ok {
		return laborrequest.LaborRequest{}, laborrequest.ErrNotFound
	}
	updated := laborrequest.Hydrate(laborrequest.HydrateParams{
		ID:             lr.ID(),
		RequesterName:  lr.RequesterName(),
		RequesterEmail: lr.RequesterEmail(),
		RequesterPhone: lr.RequesterPhone(),
		Trade:          lr.Trade(),
		Headcount:      lr.Headcount(),
		StartDate:      lr.StartDate(),
		DurationWeeks:  lr.DurationWeeks(),
		Notes:          lr.Notes(),
		Status:         status,
		CreatedAt:      lr.CreatedAt(),
		UpdatedAt:      lr.UpdatedAt(),
	})
	r.byID[id] = updated
	return updated, nil
}
