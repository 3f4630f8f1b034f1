package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func posBreaker(t *testing.T, f *fakeReaders, cfg BreakerConfig) *breakerAdapter {
	t.Helper()
	wrapped := WithCircuitBreakers(NewAdapters(f.readers()), cfg)
	require.Len(t, wrapped, 6)
	b, ok := wrapped[0].(*breakerAdapter)
	require.True(t, ok)
	require.Equal(t, payment.SourcePOS, b.Source())
	return b
}

func TestWithCircuitBreakers(t *testing.T) {
	t.Run("opens after consecutive failures and stops querying", func(t *testing.T) {
		f := seededReaders()
		f.errs[payment.SourcePOS] = errors.New("relation pos_sales does not exist")
		b := posBreaker(t, f, BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
		ctx := context.Background()

		for range 2 {
			res := b.Fetch(ctx, payment.Filter{})
			assert.Equal(t, payment.ErrorKindQueryFailed, res.Kind)
		}
		assert.Equal(t, gobreaker.StateOpen, b.State())

		res := b.Fetch(ctx, payment.Filter{})
		assert.Equal(t, payment.ErrorKindCircuitOpen, res.Kind)
		assert.Empty(t, res.Payments)
		assert.Equal(t, 2, f.callCount(payment.SourcePOS))
	})

	t.Run("canceled fetches do not trip the breaker", func(t *testing.T) {
		f := seededReaders()
		f.errs[payment.SourcePOS] = context.Canceled
		b := posBreaker(t, f, BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})

		for range 3 {
			res := b.Fetch(context.Background(), payment.Filter{})
			assert.Equal(t, payment.ErrorKindCanceled, res.Kind)
		}
		assert.Equal(t, gobreaker.StateClosed, b.State())
		assert.Equal(t, 3, f.callCount(payment.SourcePOS))
	})

	t.Run("closes again once the source recovers", func(t *testing.T) {
		f := seededReaders()
		f.errs[payment.SourcePOS] = errors.New("connection refused")
		b := posBreaker(t, f, BreakerConfig{FailureThreshold: 1, OpenTimeout: 20 * time.Millisecond})

		b.Fetch(context.Background(), payment.Filter{})
		require.Equal(t, gobreaker.StateOpen, b.State())

		f.mu.Lock()
		delete(f.errs, payment.SourcePOS)
		f.mu.Unlock()

		require.Eventually(t, func() bool {
			return b.State() == gobreaker.StateHalfOpen
		}, time.Second, 5*time.Millisecond)

		res := b.Fetch(context.Background(), payment.Filter{})
		assert.False(t, res.Failed())
		assert.Len(t, res.Payments, 2)
		assert.Equal(t, gobreaker.StateClosed, b.State())
	})

	t.Run("zero config falls back to defaults", func(t *testing.T) {
		f := seededReaders()
		f.errs[payment.SourcePOS] = errors.New("boom")
		b := posBreaker(t, f, BreakerConfig{})

		for range 4 {
			b.Fetch(context.Background(), payment.Filter{})
		}
		assert.Equal(t, gobreaker.StateClosed, b.State())

		b.Fetch(context.Background(), payment.Filter{})
		assert.Equal(t, gobreaker.StateOpen, b.State())
	})

	t.Run("state changes are metered", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		metrics, err := telemetry.NewConsolidationMetrics(telemetry.ConsolidationMetricsConfig{
			Meter: provider.Meter("test"),
		})
		require.NoError(t, err)

		f := seededReaders()
		f.errs[payment.SourcePOS] = errors.New("boom")
		b := posBreaker(t, f, BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute, Metrics: metrics})
		b.Fetch(context.Background(), payment.Filter{})
		require.Equal(t, gobreaker.StateOpen, b.State())

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))

		var state *metricdata.DataPoint[int64]
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if g, ok := m.Data.(metricdata.Gauge[int64]); ok && m.Name == "hotel_payment_source_breaker_state" {
					require.Len(t, g.DataPoints, 1)
					state = &g.DataPoints[0]
				}
			}
		}
		require.NotNil(t, state)
		assert.Equal(t, int64(gobreaker.StateOpen), state.Value)
		src, _ := state.Attributes.Value(telemetry.AttrSource)
		assert.Equal(t, "pos", src.AsString())
	})

	t.Run("open circuit degrades the ledger", func(t *testing.T) {
		f := seededReaders()
		f.errs[payment.SourceSupplier] = errors.New("timeout talking to replica")
		agg := NewAggregator(WithCircuitBreakers(NewAdapters(f.readers()),
			BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute}))
		ctx := context.Background()

		_, err := agg.Aggregate(ctx, payment.Filter{})
		require.NoError(t, err)

		ledger, err := agg.Aggregate(ctx, payment.Filter{})
		require.NoError(t, err)
		assert.True(t, ledger.Degraded())

		status := statusOf(t, ledger, payment.SourceSupplier)
		assert.False(t, status.OK)
		assert.Equal(t, payment.ErrorKindCircuitOpen, status.Kind)
		assert.Equal(t, 1, f.callCount(payment.SourceSupplier))
		assert.Len(t, ledger.Payments, 6)
	})
}
