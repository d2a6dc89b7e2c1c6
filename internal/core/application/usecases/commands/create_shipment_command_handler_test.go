package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, a *shipment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, a *shipment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockShipmentRepository) GetByTrackingID(
	ctx context.Context, trackingID string,
) (*shipment.Assignment, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Assignment), args.Error(1)
}

func (m *MockShipmentRepository) GetByOrderID(
	ctx context.Context, orderID kernel.UUID,
) (*shipment.Assignment, error) {
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

type MockShipmentUoW struct{ mock.Mock }

func (m *MockShipmentUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockShipmentUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockShipmentUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockShipmentUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockShipmentUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

type MockShipmentUoWFactory struct{ mock.Mock }

func (m *MockShipmentUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCarrierClient struct{ mock.Mock }

func (m *MockCarrierClient) CreateShipment(
	ctx context.Context, req ports.CreateShipmentRequest,
) (ports.CreateShipmentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.CreateShipmentResult), args.Error(1)
}

func (m *MockCarrierClient) PollTracking(
	ctx context.Context, carrierID, trackingID string,
) ([]ports.RawTrackingEvent, error) {
	args := m.Called(ctx, carrierID, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.RawTrackingEvent), args.Error(1)
}

type MockOrderTransitioner struct{ mock.Mock }

func (m *MockOrderTransitioner) Handle(
	ctx context.Context, command commands.TransitionOrderCommand,
) (*order.Order, error) {
	args := m.Called(ctx, command)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func testRegistry(t *testing.T) *carrier.Registry {
	t.Helper()

	base, err := kernel.NewMoney(5000)
	require.NoError(t, err)
	perKg, err := kernel.NewMoney(1000)
	require.NoError(t, err)
	surcharge, err := kernel.NewMoney(500)
	require.NoError(t, err)

	dhl, err := carrier.NewCarrier("dhl", "DHL Express", 30, base, perKg, surcharge, 3, true, true)
	require.NoError(t, err)
	ups, err := carrier.NewCarrier("ups", "UPS Ground", 20, base, perKg, surcharge, 5, false, false)
	require.NoError(t, err)

	registry, err := carrier.NewRegistry([]carrier.Carrier{dhl, ups})
	require.NoError(t, err)
	return registry
}

func testPickup() ports.ShipmentAddress {
	return ports.ShipmentAddress{
		Line1: "1 Warehouse Way", City: "Reno", PostalCode: "89501", Region: "NV", Country: "US",
	}
}

func newShipmentHandler(
	factory *MockShipmentUoWFactory,
	client *MockCarrierClient,
	transitioner *MockOrderTransitioner,
	t *testing.T,
) commands.CreateShipmentCommandHandler {
	return commands.NewCreateShipmentCommandHandler(
		factory, testRegistry(t), client, transitioner, testPickup(),
		slog.New(slog.DiscardHandler),
	)
}

func TestCreateShipmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	testOrder := restoredOrder(t, order.Processing)

	cmd, err := commands.NewCreateShipmentCommand(testOrder.ID(), "dhl", 3.5, kernel.Zero())
	require.NoError(t, err)

	orderRepo := new(MockTransitionOrderRepository)
	shipmentRepo := new(MockShipmentRepository)
	readUoW := new(MockShipmentUoW)
	writeUoW := new(MockShipmentUoW)
	client := new(MockCarrierClient)
	transitioner := new(MockOrderTransitioner)

	mock.InOrder(
		readUoW.On("Begin", ctx).Return(nil).Once(),
		readUoW.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		readUoW.On("ShipmentRepository").Return(shipmentRepo).Once(),
		shipmentRepo.On("GetByOrderID", ctx, testOrder.ID()).
			Return(nil, errs.ErrObjectNotFound).
			Once(),
		readUoW.On("Rollback", ctx).Return(nil).Once(),
		client.On("CreateShipment", ctx, mock.AnythingOfType("ports.CreateShipmentRequest")).
			Return(ports.CreateShipmentResult{TrackingID: "TRK-1001", CarrierRef: "dhl-77"}, nil).
			Once(),
		writeUoW.On("Begin", ctx).Return(nil).Once(),
		writeUoW.On("ShipmentRepository").Return(shipmentRepo).Once(),
		shipmentRepo.On("Add", ctx, mock.AnythingOfType("*shipment.Assignment")).Return(nil).Once(),
		writeUoW.On("Commit", ctx).Return(nil).Once(),
		writeUoW.On("Rollback", ctx).Return(nil).Once(),
		transitioner.On("Handle", ctx, mock.AnythingOfType("commands.TransitionOrderCommand")).
			Return(testOrder, nil).
			Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(readUoW).Once()
	factory.On("Create").Return(writeUoW).Once()

	handler := newShipmentHandler(factory, client, transitioner, t)
	assignment, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "TRK-1001", assignment.TrackingID())
	assert.Equal(t, "dhl", assignment.CarrierID())
	assert.Equal(t, shipment.CanonicalShipped, assignment.CurrentStatus())

	carrierReq := client.Calls[0].Arguments[1].(ports.CreateShipmentRequest)
	assert.Equal(t, testPickup(), carrierReq.Pickup)
	assert.Equal(t, "Springfield", carrierReq.Delivery.City)

	transitionCmd := transitioner.Calls[0].Arguments[1].(commands.TransitionOrderCommand)
	assert.Equal(t, order.Shipped, transitionCmd.Target())
	assert.Equal(t, "TRK-1001", transitionCmd.Evidence())

	shipmentRepo.AssertExpectations(t)
	client.AssertExpectations(t)
	transitioner.AssertExpectations(t)
}

func TestCreateShipmentCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateShipmentCommand{} // not constructed properly

	factory := new(MockShipmentUoWFactory)
	handler := newShipmentHandler(factory, new(MockCarrierClient), new(MockOrderTransitioner), t)

	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCreateShipmentCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateShipmentCommandHandler_Handle_UnknownCarrier(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewCreateShipmentCommand(kernel.NewUUID(), "pigeon", 1, kernel.Zero())
	require.NoError(t, err)

	factory := new(MockShipmentUoWFactory)
	handler := newShipmentHandler(factory, new(MockCarrierClient), new(MockOrderTransitioner), t)

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateShipmentCommandHandler_Handle_OverweightPackage(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewCreateShipmentCommand(kernel.NewUUID(), "dhl", 45, kernel.Zero())
	require.NoError(t, err)

	factory := new(MockShipmentUoWFactory)
	handler := newShipmentHandler(factory, new(MockCarrierClient), new(MockOrderTransitioner), t)

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestCreateShipmentCommandHandler_Handle_CODNotSupported(t *testing.T) {
	ctx := t.Context()
	cod, err := kernel.NewMoney(2000)
	require.NoError(t, err)

	cmd, err := commands.NewCreateShipmentCommand(kernel.NewUUID(), "ups", 1, cod)
	require.NoError(t, err)

	factory := new(MockShipmentUoWFactory)
	handler := newShipmentHandler(factory, new(MockCarrierClient), new(MockOrderTransitioner), t)

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestCreateShipmentCommandHandler_Handle_OrderNotProcessing(t *testing.T) {
	ctx := t.Context()
	testOrder := restoredOrder(t, order.PendingPayment)

	cmd, err := commands.NewCreateShipmentCommand(testOrder.ID(), "dhl", 2, kernel.Zero())
	require.NoError(t, err)

	orderRepo := new(MockTransitionOrderRepository)
	shipmentRepo := new(MockShipmentRepository)
	uow := new(MockShipmentUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("ShipmentRepository").Return(shipmentRepo).Once(),
		shipmentRepo.On("GetByOrderID", ctx, testOrder.ID()).
			Return(nil, errs.ErrObjectNotFound).
			Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	client := new(MockCarrierClient)
	handler := newShipmentHandler(factory, client, new(MockOrderTransitioner), t)

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrInvalidPrecondition)

	var preconditionErr *commands.InvalidPreconditionError
	require.ErrorAs(t, err, &preconditionErr)
	assert.Equal(t, order.Processing, preconditionErr.Required)
	assert.Equal(t, order.PendingPayment, preconditionErr.Actual)

	client.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything)
}

func TestCreateShipmentCommandHandler_Handle_ExistingAssignmentIsReturned(t *testing.T) {
	ctx := t.Context()
	testOrder := restoredOrder(t, order.Shipped)
	existing, err := shipment.NewAssignment(testOrder.ID(), "dhl", "TRK-1001")
	require.NoError(t, err)

	cmd, err := commands.NewCreateShipmentCommand(testOrder.ID(), "dhl", 2, kernel.Zero())
	require.NoError(t, err)

	orderRepo := new(MockTransitionOrderRepository)
	shipmentRepo := new(MockShipmentRepository)
	uow := new(MockShipmentUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("ShipmentRepository").Return(shipmentRepo).Once(),
		shipmentRepo.On("GetByOrderID", ctx, testOrder.ID()).Return(existing, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	client := new(MockCarrierClient)
	handler := newShipmentHandler(factory, client, new(MockOrderTransitioner), t)

	assignment, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Same(t, existing, assignment)
	client.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything)
}

func TestCreateShipmentCommandHandler_Handle_CarrierUnavailable(t *testing.T) {
	ctx := t.Context()
	testOrder := restoredOrder(t, order.Processing)

	cmd, err := commands.NewCreateShipmentCommand(testOrder.ID(), "dhl", 2, kernel.Zero())
	require.NoError(t, err)

	orderRepo := new(MockTransitionOrderRepository)
	shipmentRepo := new(MockShipmentRepository)
	uow := new(MockShipmentUoW)
	client := new(MockCarrierClient)

	unavailable := &ports.CarrierUnavailableError{CarrierID: "dhl", Cause: errors.New("timeout")}

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("ShipmentRepository").Return(shipmentRepo).Once(),
		shipmentRepo.On("GetByOrderID", ctx, testOrder.ID()).
			Return(nil, errs.ErrObjectNotFound).
			Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
		client.On("CreateShipment", ctx, mock.AnythingOfType("ports.CreateShipmentRequest")).
			Return(ports.CreateShipmentResult{}, unavailable).
			Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	transitioner := new(MockOrderTransitioner)
	handler := newShipmentHandler(factory, client, transitioner, t)

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, ports.ErrCarrierUnavailable)
	assert.Equal(t, order.Processing, testOrder.Status())
	shipmentRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	transitioner.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestCreateShipmentCommandHandler_Handle_CancelRaceKeepsAssignment(t *testing.T) {
	ctx := t.Context()
	testOrder := restoredOrder(t, order.Processing)

	cmd, err := commands.NewCreateShipmentCommand(testOrder.ID(), "dhl", 2, kernel.Zero())
	require.NoError(t, err)

	orderRepo := new(MockTransitionOrderRepository)
	shipmentRepo := new(MockShipmentRepository)
	readUoW := new(MockShipmentUoW)
	writeUoW := new(MockShipmentUoW)
	client := new(MockCarrierClient)
	transitioner := new(MockOrderTransitioner)

	mock.InOrder(
		readUoW.On("Begin", ctx).Return(nil).Once(),
		readUoW.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		readUoW.On("ShipmentRepository").Return(shipmentRepo).Once(),
		shipmentRepo.On("GetByOrderID", ctx, testOrder.ID()).
			Return(nil, errs.ErrObjectNotFound).
			Once(),
		readUoW.On("Rollback", ctx).Return(nil).Once(),
		client.On("CreateShipment", ctx, mock.AnythingOfType("ports.CreateShipmentRequest")).
			Return(ports.CreateShipmentResult{TrackingID: "TRK-2002"}, nil).
			Once(),
		writeUoW.On("Begin", ctx).Return(nil).Once(),
		writeUoW.On("ShipmentRepository").Return(shipmentRepo).Once(),
		shipmentRepo.On("Add", ctx, mock.AnythingOfType("*shipment.Assignment")).Return(nil).Once(),
		writeUoW.On("Commit", ctx).Return(nil).Once(),
		writeUoW.On("Rollback", ctx).Return(nil).Once(),
		transitioner.On("Handle", ctx, mock.AnythingOfType("commands.TransitionOrderCommand")).
			Return(nil, &order.InvalidTransitionError{From: order.Cancelled, To: order.Shipped}).
			Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(readUoW).Once()
	factory.On("Create").Return(writeUoW).Once()

	handler := newShipmentHandler(factory, client, transitioner, t)
	assignment, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "TRK-2002", assignment.TrackingID())
}
