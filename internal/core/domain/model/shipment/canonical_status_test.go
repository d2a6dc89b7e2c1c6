package shipment_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_Map(t *testing.T) {
	vocab := shipment.DefaultVocabulary()

	t.Run("known raw status", func(t *testing.T) {
		canonical, mapped := vocab.Map("ups", "Out For Delivery")

		assert.True(t, mapped)
		assert.Equal(t, shipment.CanonicalOutForDelivery, canonical)
	})

	t.Run("unmapped raw status falls back to in_transit", func(t *testing.T) {
		canonical, mapped := vocab.Map("dhl", "customs_hold")

		assert.False(t, mapped)
		assert.Equal(t, shipment.CanonicalInTransit, canonical)
	})

	t.Run("unknown carrier falls back to in_transit", func(t *testing.T) {
		canonical, mapped := vocab.Map("pigeon-post", "delivered")

		assert.False(t, mapped)
		assert.Equal(t, shipment.CanonicalInTransit, canonical)
	})
}

func TestCanonicalStatus_Validate(t *testing.T) {
	require.Error(t, shipment.CanonicalUnknown.Validate())
	require.Error(t, shipment.CanonicalStatus(99).Validate())
	require.NoError(t, shipment.CanonicalDelivered.Validate())
}

func TestCanonicalStatus_String(t *testing.T) {
	assert.Equal(t, "out_for_delivery", shipment.CanonicalOutForDelivery.String())
	assert.Equal(t, "unknown", shipment.CanonicalStatus(42).String())
}
