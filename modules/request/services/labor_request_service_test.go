package services

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdir/crewdir/modules/request/domain/aggregates/laborrequest"
	"github.com/crewdir/crewdir/modules/testkit/repofakes"
	"github.com/crewdir/crewdir/pkg/eventbus"
)

func quietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func submitDTO() *laborrequest.CreateDTO {
	start := time.Now().Add(14 * 24 * time.Hour)
	return &laborrequest.CreateDTO{
		RequesterName:  "Dana Smith",
		RequesterEmail: "dana@example.com",
		Trade:          "electrical",
		Headcount:      4,
		StartDate:      &start,
		DurationWeeks:  6,
	}
}

func TestLaborRequestService_SubmitPublishesEvent(t *testing.T) {
	repo := repofakes.NewLaborRequestRepository()
	bus := quietBus()

	var events []*LaborRequestSubmittedEvent
	bus.Subscribe(func(e *LaborRequestSubmittedEvent) { events = append(events, e) })

	service := NewLaborRequestService(repo, bus)
	created, err := service.Submit(context.Background(), submitDTO())
	require.NoError(t, err)

	assert.Equal(t, laborrequest.StatusNew, created.Status())
	require.Len(t, events, 1)
	assert.Equal(t, created.ID(), events[0].ID)
	assert.Equal(t, "electrical", events[0].Trade)
}

func TestLaborRequestService_TransitionFlow(t *testing.T) {
	repo := repofakes.NewLaborRequestRepository()
	service := NewLaborRequestService(repo, quietBus())

	created, err := service.Submit(context.Background(), submitDTO())
	require.NoError(t, err)

	reviewing, err := service.Transition(context.Background(), created.ID(), laborrequest.StatusReviewing)
	require.NoError(t, err)
	assert.Equal(t, laborrequest.StatusReviewing, reviewing.Status())

	closed, err := service.Transition(context.Background(), created.ID(), laborrequest.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, laborrequest.StatusClosed, closed.Status())

	// Closed is terminal.
	_, err = service.Transition(context.Background(), created.ID(), laborrequest.StatusReviewing)
	require.ErrorIs(t, err, laborrequest.ErrInvalidTransition)
}

func TestLaborRequestService_DirectCloseFromNew(t *testing.T) {
	repo := repofakes.NewLaborRequestRepository()
	service := NewLaborRequestService(repo, quietBus())

	created, err := service.Submit(context.Background(), submitDTO())
	require.NoError(t, err)

	closed, err := service.Transition(context.Background(), created.ID(), laborrequest.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, laborrequest.StatusClosed, closed.Status())
}

func TestLaborRequestCreateDTO_Validation(t *testing.T) {
	dto := &laborrequest.CreateDTO{
		RequesterName:  "",
		RequesterEmail: "not-an-email",
		Trade:          "electrical",
		Headcount:      0,
	}

	errs, ok := dto.Ok()
	require.False(t, ok)
	assert.Contains(t, errs, "RequesterName")
	assert.Contains(t, errs, "RequesterEmail")
	assert.Contains(t, errs, "Headcount")
	assert.Contains(t, errs, "StartDate")
}
