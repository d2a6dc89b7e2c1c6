package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetTrackingTimelineQuery_Success(t *testing.T) {
	query, err := queries.NewGetTrackingTimelineQuery("TRK-1001")

	require.NoError(t, err)
	assert.Equal(t, "TRK-1001", query.TrackingID())
	assert.NoError(t, query.Validate())
}

func TestNewGetTrackingTimelineQuery_EmptyTrackingID(t *testing.T) {
	_, err := queries.NewGetTrackingTimelineQuery("")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetTrackingTimelineQuery_NotConstructed(t *testing.T) {
	var query queries.GetTrackingTimelineQuery

	err := query.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetTrackingTimelineQueryIsNotConstructed)
}
