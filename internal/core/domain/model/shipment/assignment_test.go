package shipment_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignment(t *testing.T) *shipment.Assignment {
	t.Helper()
	a, err := shipment.NewAssignment(kernel.NewUUID(), "dhl", "T1")
	require.NoError(t, err)
	return a
}

func event(t *testing.T, externalID string, canonical shipment.CanonicalStatus, occurredAt time.Time) shipment.StatusEvent {
	t.Helper()
	e, err := shipment.NewStatusEvent(
		"dhl", externalID, canonical.String(), canonical, occurredAt, time.Now(), "Rotterdam", "")
	require.NoError(t, err)
	return e
}

func TestNewAssignment(t *testing.T) {
	a := newAssignment(t)

	require.NoError(t, a.Validate())
	assert.Equal(t, shipment.CanonicalShipped, a.CurrentStatus())
	assert.Empty(t, a.Events())
}

func TestNewAssignment_Validation(t *testing.T) {
	_, err := shipment.NewAssignment(kernel.UUID{}, "dhl", "T1")
	require.Error(t, err)

	_, err = shipment.NewAssignment(kernel.NewUUID(), "", "T1")
	require.Error(t, err)

	_, err = shipment.NewAssignment(kernel.NewUUID(), "dhl", "")
	require.Error(t, err)
}

func TestAssignment_Apply_AdvancesStatus(t *testing.T) {
	a := newAssignment(t)
	now := time.Now()

	outcome := a.Apply(event(t, "E1", shipment.CanonicalInTransit, now))

	assert.Equal(t, shipment.EventApplied, outcome.Result)
	assert.True(t, outcome.Advanced)
	assert.Equal(t, shipment.CanonicalInTransit, a.CurrentStatus())
	assert.Len(t, a.Events(), 1)
}

func TestAssignment_Apply_DuplicateExternalIDIsNoOp(t *testing.T) {
	a := newAssignment(t)
	now := time.Now()

	first := a.Apply(event(t, "E1", shipment.CanonicalDelivered, now))
	require.True(t, first.Advanced)

	// Same externalEventId again, e.g. webhook retry plus poll overlap.
	second := a.Apply(event(t, "E1", shipment.CanonicalDelivered, now))

	assert.Equal(t, shipment.EventDeduplicated, second.Result)
	assert.Equal(t, shipment.CanonicalDelivered, a.CurrentStatus())
	assert.Len(t, a.Events(), 1)
}

func TestAssignment_Apply_DuplicateTupleWhenIDAbsent(t *testing.T) {
	a := newAssignment(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a.Apply(event(t, "", shipment.CanonicalInTransit, at))
	outcome := a.Apply(event(t, "", shipment.CanonicalInTransit, at))

	assert.Equal(t, shipment.EventDeduplicated, outcome.Result)
	assert.Len(t, a.Events(), 1)
}

func TestAssignment_Apply_TupleCollisionWithDifferentIDsIsKept(t *testing.T) {
	a := newAssignment(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a.Apply(event(t, "E1", shipment.CanonicalInTransit, at))
	outcome := a.Apply(event(t, "E2", shipment.CanonicalInTransit, at))

	// Distinct carrier event ids are distinct events even with equal tuples.
	assert.Equal(t, shipment.EventApplied, outcome.Result)
	assert.Len(t, a.Events(), 2)
}

func TestAssignment_Apply_OutOfOrderIsAuditOnly(t *testing.T) {
	a := newAssignment(t)
	now := time.Now()

	a.Apply(event(t, "E2", shipment.CanonicalOutForDelivery, now))
	outcome := a.Apply(event(t, "E1", shipment.CanonicalInTransit, now.Add(-time.Hour)))

	assert.Equal(t, shipment.EventApplied, outcome.Result)
	assert.False(t, outcome.Advanced)
	// Stored in the log for audit, but the status never regresses.
	assert.Len(t, a.Events(), 2)
	assert.Equal(t, shipment.CanonicalOutForDelivery, a.CurrentStatus())
}

func TestRestoreAssignment_KeepsOrderingGuarantee(t *testing.T) {
	orderID := kernel.NewUUID()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	logged := []shipment.StatusEvent{event(t, "E1", shipment.CanonicalOutForDelivery, at)}

	a, err := shipment.RestoreAssignment(
		orderID, "dhl", "T1", shipment.CanonicalOutForDelivery, at, logged)
	require.NoError(t, err)

	outcome := a.Apply(event(t, "E0", shipment.CanonicalInTransit, at.Add(-time.Hour)))
	assert.False(t, outcome.Advanced)
	assert.Equal(t, shipment.CanonicalOutForDelivery, a.CurrentStatus())
}

func TestCanonicalStatus_OrderStatus(t *testing.T) {
	for canonical, want := range map[shipment.CanonicalStatus]string{
		shipment.CanonicalShipped:        "Shipped",
		shipment.CanonicalInTransit:      "Shipped",
		shipment.CanonicalOutForDelivery: "OutForDelivery",
		shipment.CanonicalDelivered:      "Delivered",
	} {
		status, ok := canonical.OrderStatus()
		require.True(t, ok)
		assert.Equal(t, want, status.String())
	}

	_, ok := shipment.CanonicalDeliveryFailed.OrderStatus()
	assert.False(t, ok)
	_, ok = shipment.CanonicalReturned.OrderStatus()
	assert.False(t, ok)
}
