package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid amount", func(t *testing.T) {
		m, err := kernel.NewMoney(1250)

		require.NoError(t, err)
		assert.Equal(t, int64(1250), m.Cents())
		assert.Equal(t, "12.50", m.String())
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)
		require.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a, _ := kernel.NewMoney(4000)
	b, _ := kernel.NewMoney(2000)

	assert.Equal(t, int64(6000), a.Add(b).Cents())
	assert.Equal(t, int64(8000), a.MulInt(2).Cents())
	assert.True(t, b.Less(a))
	assert.False(t, a.Less(b))
	assert.True(t, kernel.Zero().IsZero())
	assert.True(t, b.IsEqual(b))
}
