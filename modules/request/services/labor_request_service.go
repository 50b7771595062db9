package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/crewdir/crewdir/modules/request/domain/aggregates/laborrequest"
	"github.com/crewdir/crewdir/pkg/eventbus"
)

// LaborRequestSubmittedEvent is published when the public intake form
// creates a new request.
type LaborRequestSubmittedEvent struct {
	ID    uuid.UUID
	Trade string
}

type LaborRequestService struct {
	repo      laborrequest.Repository
	publisher eventbus.EventBus
}

func NewLaborRequestService(repo laborrequest.Repository, publisher eventbus.EventBus) *LaborRequestService {
	return &LaborRequestService{repo: repo, publisher: publisher}
}

func (s *LaborRequestService) GetPaginated(ctx context.Context, params *laborrequest.FindParams) ([]laborrequest.LaborRequest, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *LaborRequestService) GetByID(ctx context.Context, id uuid.UUID) (laborrequest.LaborRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *LaborRequestService) Submit(ctx context.Context, dto *laborrequest.CreateDTO) (laborrequest.LaborRequest, error) {
	if dto == nil {
		return laborrequest.LaborRequest{}, errors.New("missing dto")
	}
	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return laborrequest.LaborRequest{}, err
	}
	if s.publisher != nil {
		s.publisher.Publish(&LaborRequestSubmittedEvent{ID: created.ID(), Trade: created.Trade()})
	}
	return created, nil
}

// Transition moves a request to a new status, enforcing the intake flow.
func (s *LaborRequestService) Transition(ctx context.Context, id uuid.UUID, to laborrequest.Status) (laborrequest.LaborRequest, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return laborrequest.LaborRequest{}, err
	}
	if !laborrequest.ValidTransition(current.Status(), to) {
		return laborrequest.LaborRequest{}, laborrequest.ErrInvalidTransition
	}
	return s.repo.SetStatus(ctx, id, to)
}
