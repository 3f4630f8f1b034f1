package payment

import (
	"context"
	"errors"
	"time"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/infrastructure/logger"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const detailCircuitOpen = "source skipped after repeated failures"

// BreakerConfig configures the per-source circuit breakers
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failed fetches that opens the circuit
	FailureThreshold uint32
	// OpenTimeout is how long an open circuit skips the source before a trial fetch
	OpenTimeout time.Duration
	Logger      *zap.Logger
	Metrics     *telemetry.ConsolidationMetrics
}

// DefaultBreakerConfig returns the breaker settings used when none are configured
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// errSourceFailed marks a fetch as failed for the breaker's counters
var errSourceFailed = errors.New("source fetch failed")

// breakerAdapter skips a source whose circuit is open. A skipped source is
// reported as failed with ErrorKindCircuitOpen, so the ledger is degraded
// exactly as if the query had failed.
type breakerAdapter struct {
	SourceAdapter
	cb *gobreaker.CircuitBreaker
}

// WithCircuitBreakers wraps each adapter in its own circuit breaker
func WithCircuitBreakers(adapters []SourceAdapter, cfg BreakerConfig) []SourceAdapter {
	def := DefaultBreakerConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	wrapped := make([]SourceAdapter, len(adapters))
	for i, adapter := range adapters {
		wrapped[i] = &breakerAdapter{
			SourceAdapter: adapter,
			cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
				Name:        string(adapter.Source()),
				MaxRequests: 1,
				Timeout:     cfg.OpenTimeout,
				ReadyToTrip: func(counts gobreaker.Counts) bool {
					return counts.ConsecutiveFailures >= cfg.FailureThreshold
				},
				OnStateChange: func(name string, from, to gobreaker.State) {
					log.Warn("Payment source circuit changed state",
						zap.String("source", name),
						zap.String("from", from.String()),
						zap.String("to", to.String()),
					)
					cfg.Metrics.RecordBreakerState(context.Background(), name, int64(to), to.String())
				},
			}),
		}
	}
	return wrapped
}

func (b *breakerAdapter) Fetch(ctx context.Context, filter payment.Filter) payment.SourceResult {
	var res payment.SourceResult
	_, err := b.cb.Execute(func() (any, error) {
		res = b.SourceAdapter.Fetch(ctx, filter)
		// canceled requests do not count against the source
		if res.Failed() && res.Kind != payment.ErrorKindCanceled {
			return nil, errSourceFailed
		}
		return nil, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logger.L(ctx).Debug("Payment source circuit open",
			zap.String("source", string(b.Source())),
		)
		return payment.Err(b.Source(), payment.ErrorKindCircuitOpen, detailCircuitOpen)
	}
	return res
}

// State reports the breaker state
func (b *breakerAdapter) State() gobreaker.State {
	return b.cb.State()
}
