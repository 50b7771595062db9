package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
	"github.com/crewdir/crewdir/pkg/eventbus"
)

// AgencyCreatedEvent is published after a directory record is persisted,
// whether through the admin API or the bulk import pipeline.
type AgencyCreatedEvent struct {
	ID     uuid.UUID
	Name   string
	Source string // "api" or "import"
}

type AgencyService struct {
	repo      agency.Repository
	publisher eventbus.EventBus
}

func NewAgencyService(repo agency.Repository, publisher eventbus.EventBus) *AgencyService {
	return &AgencyService{repo: repo, publisher: publisher}
}

func (s *AgencyService) GetPaginated(ctx context.Context, params *agency.FindParams) ([]agency.Agency, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *AgencyService) GetByID(ctx context.Context, id uuid.UUID) (agency.Agency, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AgencyService) Create(ctx context.Context, dto *agency.CreateDTO) (agency.Agency, error) {
	if dto == nil {
		return agency.Agency{}, errors.New("missing dto")
	}
	dto.Normalize()
	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return agency.Agency{}, err
	}
	if s.publisher != nil {
		s.publisher.Publish(&AgencyCreatedEvent{ID: created.ID(), Name: created.Name(), Source: "api"})
	}
	return created, nil
}

func (s *AgencyService) Update(ctx context.Context, id uuid.UUID, params *agency.UpdateParams) (agency.Agency, error) {
	return s.repo.Update(ctx, id, params)
}

func (s *AgencyService) Deactivate(ctx context.Context, id uuid.UUID) (agency.Agency, error) {
	return s.repo.SetStatus(ctx, id, agency.StatusInactive)
}
