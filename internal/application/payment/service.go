// Package payment exposes the consolidation use cases: the signed ledger across
// all hotel payment sources, its statistics and the reconciliation candidates.
package payment

import (
	"context"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/infrastructure/logger"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Operation names used in metrics and logs
const (
	OperationConsolidated   = "consolidated"
	OperationStats          = "stats"
	OperationReconciliation = "reconciliation"
)

// LedgerAggregator builds a ledger for a filter
type LedgerAggregator interface {
	Aggregate(ctx context.Context, filter payment.Filter) (payment.Ledger, error)
}

// ConsolidationService is stateless; every call queries the sources afresh
type ConsolidationService struct {
	aggregator LedgerAggregator
	policy     payment.ReconciliationPolicy
	metrics    *telemetry.ConsolidationMetrics
}

// ServiceOption configures a ConsolidationService
type ServiceOption func(*ConsolidationService)

// WithReconciliationPolicy replaces the default reconciliation policy
func WithReconciliationPolicy(p payment.ReconciliationPolicy) ServiceOption {
	return func(s *ConsolidationService) {
		s.policy = p
	}
}

// WithServiceMetrics counts requests by operation and degradation
func WithServiceMetrics(m *telemetry.ConsolidationMetrics) ServiceOption {
	return func(s *ConsolidationService) {
		s.metrics = m
	}
}

// NewConsolidationService creates a new ConsolidationService
func NewConsolidationService(aggregator LedgerAggregator, opts ...ServiceOption) *ConsolidationService {
	s := &ConsolidationService{
		aggregator: aggregator,
		policy:     payment.DefaultReconciliationPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetConsolidatedPayments returns every payment matching filter, most recent first
func (s *ConsolidationService) GetConsolidatedPayments(ctx context.Context, filter payment.Filter) (payment.Ledger, error) {
	return s.ledger(ctx, OperationConsolidated, filter)
}

// GetConsolidatedPaymentsStats aggregates the ledger that GetConsolidatedPayments would return
func (s *ConsolidationService) GetConsolidatedPaymentsStats(ctx context.Context, filter payment.Filter) (payment.StatsReport, error) {
	ledger, err := s.ledger(ctx, OperationStats, filter)
	if err != nil {
		return payment.StatsReport{}, err
	}
	return payment.StatsReport{
		Stats:   payment.ComputeStats(ledger.Payments),
		Sources: ledger.Sources,
	}, nil
}

// GetPaymentsForReconciliation returns the ledger entries plausible as bank-statement matches
func (s *ConsolidationService) GetPaymentsForReconciliation(ctx context.Context, filter payment.Filter) (payment.Ledger, error) {
	ledger, err := s.ledger(ctx, OperationReconciliation, filter)
	if err != nil {
		return payment.Ledger{}, err
	}
	ledger.Payments = s.policy.SelectReconcilable(ledger.Payments)
	return ledger, nil
}

func (s *ConsolidationService) ledger(ctx context.Context, operation string, filter payment.Filter) (payment.Ledger, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ConsolidationService", operation)
	defer span.End()

	if err := filter.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return payment.Ledger{}, err
	}
	setFilterAttributes(span, filter)

	ledger, err := s.aggregator.Aggregate(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return payment.Ledger{}, err
	}

	degraded := ledger.Degraded()
	s.metrics.RecordRequest(ctx, operation, degraded)
	if degraded {
		failed := ledger.FailedSources()
		names := make([]string, len(failed))
		for i, f := range failed {
			names[i] = string(f)
		}
		logger.L(ctx).Warn("Consolidation served with missing sources",
			zap.String("operation", operation),
			zap.Strings("failed_sources", names),
		)
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrDegraded, degraded)
	return ledger, nil
}

func setFilterAttributes(span trace.Span, filter payment.Filter) {
	if filter.DateFrom != nil {
		telemetry.SetAttribute(span, telemetry.SpanAttrDateFrom, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		telemetry.SetAttribute(span, telemetry.SpanAttrDateTo, *filter.DateTo)
	}
	if filter.Source != nil {
		telemetry.SetAttribute(span, telemetry.SpanAttrFilterSource, string(*filter.Source))
	}
	if filter.PaymentMethod != "" {
		telemetry.SetAttribute(span, telemetry.SpanAttrFilterMethod, filter.PaymentMethod)
	}
	if filter.Type != nil {
		telemetry.SetAttribute(span, telemetry.SpanAttrFilterType, string(*filter.Type))
	}
	if filter.MinAmount != nil {
		telemetry.SetAttribute(span, telemetry.SpanAttrMinAmount, *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		telemetry.SetAttribute(span, telemetry.SpanAttrMaxAmount, *filter.MaxAmount)
	}
}
