package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
	"github.com/crewdir/crewdir/modules/claim/domain/aggregates/claim"
	"github.com/crewdir/crewdir/modules/testkit/repofakes"
	"github.com/crewdir/crewdir/pkg/eventbus"
)

func quietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func seedPendingClaimAgency(t *testing.T, repo *repofakes.AgencyRepository) agency.Agency {
	t.Helper()
	a := agency.Hydrate(agency.HydrateParams{
		ID:     uuid.New(),
		Name:   "Acme Staffing",
		Status: agency.StatusPendingClaim,
	})
	repo.Seed(a)
	return a
}

func TestClaimService_SubmitAndApproveActivatesAgency(t *testing.T) {
	agencies := repofakes.NewAgencyRepository()
	a := seedPendingClaimAgency(t, agencies)

	claims := repofakes.NewClaimRepository()
	bus := quietBus()

	var decided []*ClaimDecidedEvent
	bus.Subscribe(func(e *ClaimDecidedEvent) { decided = append(decided, e) })

	service := NewClaimService(claims, agencies, bus)

	created, err := service.Submit(context.Background(), a.ID(), "op-123", &claim.CreateDTO{
		ClaimantEmail: "owner@acmestaffing.com",
	})
	require.NoError(t, err)
	assert.Equal(t, claim.StatusPending, created.Status())

	approved, err := service.Approve(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, claim.StatusApproved, approved.Status())
	require.NotNil(t, approved.DecidedAt())

	refreshed, err := agencies.GetByID(context.Background(), a.ID())
	require.NoError(t, err)
	assert.Equal(t, agency.StatusActive, refreshed.Status())

	require.Len(t, decided, 1)
	assert.Equal(t, claim.StatusApproved, decided[0].Status)
}

func TestClaimService_RejectLeavesAgencyAlone(t *testing.T) {
	agencies := repofakes.NewAgencyRepository()
	a := seedPendingClaimAgency(t, agencies)

	claims := repofakes.NewClaimRepository()
	service := NewClaimService(claims, agencies, quietBus())

	created, err := service.Submit(context.Background(), a.ID(), "op-123", &claim.CreateDTO{
		ClaimantEmail: "owner@acmestaffing.com",
	})
	require.NoError(t, err)

	rejected, err := service.Reject(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, claim.StatusRejected, rejected.Status())

	refreshed, err := agencies.GetByID(context.Background(), a.ID())
	require.NoError(t, err)
	assert.Equal(t, agency.StatusPendingClaim, refreshed.Status())
}

func TestClaimService_OneOpenClaimPerAgencyAndClaimant(t *testing.T) {
	agencies := repofakes.NewAgencyRepository()
	a := seedPendingClaimAgency(t, agencies)

	service := NewClaimService(repofakes.NewClaimRepository(), agencies, quietBus())

	_, err := service.Submit(context.Background(), a.ID(), "op-123", &claim.CreateDTO{
		ClaimantEmail: "owner@acmestaffing.com",
	})
	require.NoError(t, err)

	_, err = service.Submit(context.Background(), a.ID(), "op-123", &claim.CreateDTO{
		ClaimantEmail: "owner@acmestaffing.com",
	})
	require.ErrorIs(t, err, claim.ErrAlreadyPending)
}

func TestClaimService_SubmitUnknownAgency(t *testing.T) {
	service := NewClaimService(repofakes.NewClaimRepository(), repofakes.NewAgencyRepository(), quietBus())

	_, err := service.Submit(context.Background(), uuid.New(), "op-123", &claim.CreateDTO{
		ClaimantEmail: "owner@acmestaffing.com",
	})
	require.ErrorIs(t, err, agency.ErrNotFound)
}

func TestClaimService_DecideTwice(t *testing.T) {
	agencies := repofakes.NewAgencyRepository()
	a := seedPendingClaimAgency(t, agencies)

	service := NewClaimService(repofakes.NewClaimRepository(), agencies, quietBus())

	created, err := service.Submit(context.Background(), a.ID(), "op-123", &claim.CreateDTO{
		ClaimantEmail: "owner@acmestaffing.com",
	})
	require.NoError(t, err)

	_, err = service.Approve(context.Background(), created.ID())
	require.NoError(t, err)

	_, err = service.Reject(context.Background(), created.ID())
	require.ErrorIs(t, err, claim.ErrAlreadyDecided)
}
