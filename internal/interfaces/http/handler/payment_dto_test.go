package handler

import (
	"testing"
	"time"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentFilterQuery_ToFilter(t *testing.T) {
	t.Run("empty query is an open filter", func(t *testing.T) {
		f, err := PaymentFilterQuery{}.ToFilter(time.UTC)
		require.NoError(t, err)
		assert.True(t, f.DateRange().IsOpen())
		assert.Nil(t, f.Source)
		assert.Nil(t, f.Type)
		assert.Nil(t, f.MinAmount)
		assert.Empty(t, f.PaymentMethod)
	})

	t.Run("dates are read in the hotel time zone", func(t *testing.T) {
		loc := time.FixedZone("ART", -3*3600)
		f, err := PaymentFilterQuery{DateFrom: "2026-05-01", DateTo: "2026-05-01"}.ToFilter(loc)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC), f.DateFrom.UTC())
		assert.Equal(t, time.Date(2026, 5, 2, 2, 59, 59, 999999999, time.UTC), f.DateTo.UTC())
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		for _, q := range []PaymentFilterQuery{
			{DateFrom: "2026-13-01"},
			{DateTo: "yesterday"},
			{Source: "minibar"},
			{Type: "both"},
			{MinAmount: "1,5"},
			{MaxAmount: "x"},
		} {
			_, err := q.ToFilter(time.UTC)
			assert.Error(t, err, "%+v", q)
		}
	})
}

func TestToSourceStatusResponses(t *testing.T) {
	out := ToSourceStatusResponses([]payment.SourceStatus{
		{Source: payment.SourcePOS, OK: true, Count: 3, Duration: 1500 * time.Microsecond},
		{Source: payment.SourceInvoice, Kind: payment.ErrorKindQueryFailed, Detail: "relation does not exist"},
		{Source: payment.SourceSupplier, Skipped: true},
	})
	require.Len(t, out, 3)

	assert.Equal(t, SourceStatusResponse{Source: "pos", Status: SourceStatusOK, Count: 3, DurationMs: 1}, out[0])
	assert.Equal(t, SourceStatusFailed, out[1].Status)
	assert.Equal(t, "query_failed", out[1].ErrorKind)
	assert.Equal(t, SourceStatusSkipped, out[2].Status)
}
