package services

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdir/crewdir/modules/agency/domain/aggregates/agency"
	"github.com/crewdir/crewdir/modules/testkit/repofakes"
	"github.com/crewdir/crewdir/pkg/eventbus"
)

func quietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func TestAgencyService_CreatePublishesEvent(t *testing.T) {
	repo := repofakes.NewAgencyRepository()
	bus := quietBus()

	var published []*AgencyCreatedEvent
	bus.Subscribe(func(e *AgencyCreatedEvent) {
		published = append(published, e)
	})

	service := NewAgencyService(repo, bus)
	created, err := service.Create(context.Background(), &agency.CreateDTO{
		Name:   "  Acme Staffing  ",
		Trades: []string{"electrical"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Staffing", created.Name())
	assert.Equal(t, agency.StatusActive, created.Status())

	require.Len(t, published, 1)
	assert.Equal(t, created.ID(), published[0].ID)
	assert.Equal(t, "api", published[0].Source)
}

func TestAgencyService_CreateRejectsDuplicateName(t *testing.T) {
	repo := repofakes.NewAgencyRepository()
	service := NewAgencyService(repo, quietBus())

	_, err := service.Create(context.Background(), &agency.CreateDTO{Name: "Acme Staffing"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), &agency.CreateDTO{Name: "ACME   staffing"})
	require.ErrorIs(t, err, agency.ErrNameTaken)
}

func TestAgencyService_Deactivate(t *testing.T) {
	repo := repofakes.NewAgencyRepository()
	service := NewAgencyService(repo, quietBus())

	created, err := service.Create(context.Background(), &agency.CreateDTO{Name: "Acme Staffing"})
	require.NoError(t, err)

	updated, err := service.Deactivate(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, agency.StatusInactive, updated.Status())
}
