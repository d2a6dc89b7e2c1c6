package jobs_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, aggregate *shipment.Assignment) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, aggregate *shipment.Assignment) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockShipmentRepository) GetByTrackingID(ctx context.Context, trackingID string) (*shipment.Assignment, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Assignment), args.Error(1)
}

func (m *MockShipmentRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*shipment.Assignment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Assignment), args.Error(1)
}

func (m *MockShipmentRepository) GetActive(ctx context.Context) ([]*shipment.Assignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Assignment), args.Error(1)
}

type MockCarrierClient struct{ mock.Mock }

func (m *MockCarrierClient) CreateShipment(ctx context.Context, req ports.CreateShipmentRequest) (ports.CreateShipmentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.CreateShipmentResult), args.Error(1)
}

func (m *MockCarrierClient) PollTracking(ctx context.Context, carrierID, trackingID string) ([]ports.RawTrackingEvent, error) {
	args := m.Called(ctx, carrierID, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.RawTrackingEvent), args.Error(1)
}

type MockTrackingIngestor struct{ mock.Mock }

func (m *MockTrackingIngestor) Handle(ctx context.Context, command commands.IngestTrackingEventCommand) (shipment.ApplyOutcome, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(shipment.ApplyOutcome), args.Error(1)
}

func activeAssignment(t *testing.T, carrierID, trackingID string) *shipment.Assignment {
	t.Helper()

	assignment, err := shipment.NewAssignment(kernel.NewUUID(), carrierID, trackingID)
	require.NoError(t, err)
	return assignment
}

func newPollJob(
	repo *MockShipmentRepository,
	client *MockCarrierClient,
	ingestor *MockTrackingIngestor,
) *jobs.TrackingPollJob {
	return jobs.NewTrackingPollJob(repo, client, ingestor,
		"0 */5 * * * *", slog.New(slog.DiscardHandler))
}

func TestTrackingPollJob_Poll_IngestsAllPolledEvents(t *testing.T) {
	repo := &MockShipmentRepository{}
	client := &MockCarrierClient{}
	ingestor := &MockTrackingIngestor{}
	assignment := activeAssignment(t, "dhl", "TRK-1001")
	occurred := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

	repo.On("GetActive", mock.Anything).
		Return([]*shipment.Assignment{assignment}, nil).Once()
	client.On("PollTracking", mock.Anything, "dhl", "TRK-1001").
		Return([]ports.RawTrackingEvent{
			{ExternalEventID: "E1", RawStatus: "picked_up", OccurredAt: occurred},
			{ExternalEventID: "E2", RawStatus: "in_transit", OccurredAt: occurred.Add(2 * time.Hour)},
		}, nil).Once()
	ingestor.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.IngestTrackingEventCommand) bool {
		return cmd.ExternalEventID() == "E1" && cmd.TrackingID() == "TRK-1001"
	})).Return(shipment.ApplyOutcome{Result: shipment.EventApplied, Advanced: true}, nil).Once()
	ingestor.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.IngestTrackingEventCommand) bool {
		return cmd.ExternalEventID() == "E2"
	})).Return(shipment.ApplyOutcome{Result: shipment.EventApplied, Advanced: true}, nil).Once()

	job := newPollJob(repo, client, ingestor)
	job.Poll(t.Context())

	repo.AssertExpectations(t)
	client.AssertExpectations(t)
	ingestor.AssertExpectations(t)
}

func TestTrackingPollJob_Poll_UnreachableCarrierDoesNotStopOthers(t *testing.T) {
	repo := &MockShipmentRepository{}
	client := &MockCarrierClient{}
	ingestor := &MockTrackingIngestor{}
	broken := activeAssignment(t, "dhl", "TRK-1001")
	healthy := activeAssignment(t, "ups", "TRK-2002")

	repo.On("GetActive", mock.Anything).
		Return([]*shipment.Assignment{broken, healthy}, nil).Once()
	client.On("PollTracking", mock.Anything, "dhl", "TRK-1001").
		Return(nil, &ports.CarrierUnavailableError{CarrierID: "dhl", Cause: context.DeadlineExceeded}).Once()
	client.On("PollTracking", mock.Anything, "ups", "TRK-2002").
		Return([]ports.RawTrackingEvent{
			{ExternalEventID: "U1", RawStatus: "delivered", OccurredAt: time.Now().UTC()},
		}, nil).Once()
	ingestor.On("Handle", mock.Anything, mock.Anything).
		Return(shipment.ApplyOutcome{Result: shipment.EventApplied, Advanced: true}, nil).Once()

	job := newPollJob(repo, client, ingestor)
	job.Poll(t.Context())

	client.AssertExpectations(t)
	ingestor.AssertExpectations(t)
}

func TestTrackingPollJob_Poll_ListFailureSkipsPass(t *testing.T) {
	repo := &MockShipmentRepository{}
	client := &MockCarrierClient{}
	ingestor := &MockTrackingIngestor{}

	repo.On("GetActive", mock.Anything).Return(nil, context.DeadlineExceeded).Once()

	job := newPollJob(repo, client, ingestor)
	job.Poll(t.Context())

	client.AssertNotCalled(t, "PollTracking")
	ingestor.AssertNotCalled(t, "Handle")
}

func TestTrackingPollJob_Poll_IngestFailureContinues(t *testing.T) {
	repo := &MockShipmentRepository{}
	client := &MockCarrierClient{}
	ingestor := &MockTrackingIngestor{}
	assignment := activeAssignment(t, "dhl", "TRK-1001")
	occurred := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

	repo.On("GetActive", mock.Anything).
		Return([]*shipment.Assignment{assignment}, nil).Once()
	client.On("PollTracking", mock.Anything, "dhl", "TRK-1001").
		Return([]ports.RawTrackingEvent{
			{ExternalEventID: "E1", RawStatus: "picked_up", OccurredAt: occurred},
			{ExternalEventID: "E2", RawStatus: "in_transit", OccurredAt: occurred.Add(time.Hour)},
		}, nil).Once()
	ingestor.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.IngestTrackingEventCommand) bool {
		return cmd.ExternalEventID() == "E1"
	})).Return(shipment.ApplyOutcome{}, context.DeadlineExceeded).Once()
	ingestor.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.IngestTrackingEventCommand) bool {
		return cmd.ExternalEventID() == "E2"
	})).Return(shipment.ApplyOutcome{Result: shipment.EventApplied, Advanced: true}, nil).Once()

	job := newPollJob(repo, client, ingestor)
	job.Poll(t.Context())

	ingestor.AssertExpectations(t)
}
