package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ConsolidationMetrics tracks per-source fetches and request outcomes of the payment consolidation engine.
type ConsolidationMetrics struct {
	logger *zap.Logger

	sourceFetchDuration *Histogram
	sourceRecordsTotal  *Counter
	sourceFailuresTotal *Counter
	requestsTotal       *Counter
	breakerState        *Gauge
	breakerTransitions  *Counter
}

// ConsolidationMetricsConfig holds configuration for consolidation metrics.
type ConsolidationMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewConsolidationMetrics registers the consolidation instruments on the given meter.
func NewConsolidationMetrics(cfg ConsolidationMetricsConfig) (*ConsolidationMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cm := &ConsolidationMetrics{logger: logger}

	var err error
	cm.sourceFetchDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "hotel_payment_source_fetch_duration_seconds",
		Description: "Time spent fetching and normalizing one payment source",
		Unit:        "s",
		Boundaries:  SourceFetchBuckets,
	})
	if err != nil {
		return nil, err
	}

	cm.sourceRecordsTotal, err = NewCounter(
		cfg.Meter,
		"hotel_payment_source_records_total",
		"Normalized payments returned by each source",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	cm.sourceFailuresTotal, err = NewCounter(
		cfg.Meter,
		"hotel_payment_source_failures_total",
		"Source fetches that contributed nothing because of an error",
		"{failures}",
	)
	if err != nil {
		return nil, err
	}

	cm.requestsTotal, err = NewCounter(
		cfg.Meter,
		"hotel_payment_consolidation_requests_total",
		"Consolidation requests served",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	cm.breakerState, err = NewGauge(
		cfg.Meter,
		"hotel_payment_source_breaker_state",
		"Circuit breaker state per source: 0 closed, 1 half-open, 2 open",
		"{state}",
	)
	if err != nil {
		return nil, err
	}

	cm.breakerTransitions, err = NewCounter(
		cfg.Meter,
		"hotel_payment_source_breaker_transitions_total",
		"Circuit breaker state changes per source",
		"{transitions}",
	)
	if err != nil {
		return nil, err
	}

	return cm, nil
}

// RecordSourceFetch records the outcome of one source fetch. An empty errorKind means success.
func (cm *ConsolidationMetrics) RecordSourceFetch(ctx context.Context, source string, d time.Duration, records int, errorKind string) {
	if cm == nil {
		return
	}
	sourceAttr := AttrSource.String(source)
	cm.sourceFetchDuration.RecordDuration(ctx, d, sourceAttr)

	if errorKind != "" {
		cm.sourceFailuresTotal.Inc(ctx, sourceAttr, AttrErrorKind.String(errorKind))
		cm.logger.Debug("Payment source failed",
			zap.String("source", source),
			zap.String("error_kind", errorKind),
			zap.Duration("duration", d),
		)
		return
	}
	cm.sourceRecordsTotal.Add(ctx, int64(records), sourceAttr)
}

// RecordRequest counts a consolidation request by operation and whether the ledger was degraded.
func (cm *ConsolidationMetrics) RecordRequest(ctx context.Context, operation string, degraded bool) {
	if cm == nil {
		return
	}
	cm.requestsTotal.Inc(ctx,
		AttrOperation.String(operation),
		attribute.Bool(string(AttrDegraded), degraded),
	)
}

// RecordBreakerState records a source's circuit moving to state, named stateName.
func (cm *ConsolidationMetrics) RecordBreakerState(ctx context.Context, source string, state int64, stateName string) {
	if cm == nil {
		return
	}
	sourceAttr := AttrSource.String(source)
	cm.breakerState.Set(ctx, state, sourceAttr)
	cm.breakerTransitions.Inc(ctx, sourceAttr, AttrBreakerState.String(stateName))
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewConsolidationMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
