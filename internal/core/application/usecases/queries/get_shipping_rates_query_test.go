package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetShippingRatesQuery_Success(t *testing.T) {
	cod, err := kernel.NewMoney(1500)
	require.NoError(t, err)

	query, err := queries.NewGetShippingRatesQuery(2.5, cod)

	require.NoError(t, err)
	assert.InDelta(t, 2.5, query.WeightKg(), 0.001)
	assert.True(t, query.CODAmount().IsEqual(cod))
	assert.NoError(t, query.Validate())
}

func TestNewGetShippingRatesQuery_InvalidWeight(t *testing.T) {
	tests := []struct {
		name     string
		weightKg float64
	}{
		{"zero", 0},
		{"negative", -1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queries.NewGetShippingRatesQuery(tt.weightKg, kernel.Zero())

			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}
}

func TestGetShippingRatesQuery_NotConstructed(t *testing.T) {
	var query queries.GetShippingRatesQuery

	err := query.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetShippingRatesQueryIsNotConstructed)
}
