package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/infrastructure/logger"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchTimeout bounds a whole consolidation when no timeout is configured
const DefaultFetchTimeout = 10 * time.Second

const detailDeadline = "source did not answer before the consolidation deadline"

// Aggregator queries every applicable source concurrently and merges the results
// into one time-ordered ledger. A failing source contributes zero records and a
// failed SourceStatus; the other sources are unaffected.
type Aggregator struct {
	adapters     []SourceAdapter
	fetchTimeout time.Duration
	metrics      *telemetry.ConsolidationMetrics
}

// AggregatorOption configures an Aggregator
type AggregatorOption func(*Aggregator)

// WithFetchTimeout sets the overall deadline for one consolidation. Zero disables it.
func WithFetchTimeout(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		a.fetchTimeout = d
	}
}

// WithAggregatorMetrics records per-source fetch metrics
func WithAggregatorMetrics(m *telemetry.ConsolidationMetrics) AggregatorOption {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

// NewAggregator creates an Aggregator over adapters. Output order of Sources follows adapter order.
func NewAggregator(adapters []SourceAdapter, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		adapters:     adapters,
		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// fetchOutcome is what a fetch goroutine hands back
type fetchOutcome struct {
	result   payment.SourceResult
	duration time.Duration
	done     bool
}

// Aggregate builds the ledger for filter. It returns an error only when the
// caller's context is already done; source failures are reported in Ledger.Sources.
func (a *Aggregator) Aggregate(ctx context.Context, filter payment.Filter) (payment.Ledger, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "Aggregator", "Aggregate")
	defer span.End()

	if err := ctx.Err(); err != nil {
		telemetry.RecordError(span, err)
		return payment.Ledger{}, fmt.Errorf("consolidation aborted: %w", err)
	}

	var (
		fetchCtx context.Context
		cancel   context.CancelFunc
	)
	if a.fetchTimeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, a.fetchTimeout)
	} else {
		fetchCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	var (
		mu       sync.Mutex
		closed   bool
		outcomes = make([]fetchOutcome, len(a.adapters))
		queried  []string
	)

	start := time.Now()
	g, gCtx := errgroup.WithContext(fetchCtx)
	for i, adapter := range a.adapters {
		if filter.Skips(adapter.Source()) {
			continue
		}
		queried = append(queried, string(adapter.Source()))

		g.Go(func() error {
			begin := time.Now()
			res := a.fetch(gCtx, adapter, filter)
			elapsed := time.Since(begin)

			out := fetchOutcome{result: res, duration: elapsed, done: true}
			mu.Lock()
			if closed {
				mu.Unlock()
				return nil
			}
			outcomes[i] = out
			mu.Unlock()

			a.record(ctx, out)
			return nil
		})
	}

	finished := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-fetchCtx.Done():
	}

	// Late goroutines keep running until their reader honours cancel(), but
	// their results are discarded from here on.
	mu.Lock()
	closed = true
	snapshot := make([]fetchOutcome, len(outcomes))
	copy(snapshot, outcomes)
	mu.Unlock()

	if err := ctx.Err(); err != nil {
		telemetry.RecordError(span, err)
		return payment.Ledger{}, fmt.Errorf("consolidation aborted: %w", err)
	}

	ledger := a.assemble(ctx, filter, snapshot, time.Since(start))

	failed := ledger.FailedSources()
	failedNames := make([]string, len(failed))
	for i, s := range failed {
		failedNames[i] = string(s)
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSourcesQueried, queried,
		telemetry.SpanAttrSourcesFailed, failedNames,
		telemetry.SpanAttrRecordCount, len(ledger.Payments),
		telemetry.SpanAttrDegraded, ledger.Degraded(),
	)
	telemetry.SetOK(span)

	return ledger, nil
}

// assemble turns the fetch outcomes into statuses and a sorted ledger.
// Payments are concatenated in adapter order before sorting.
func (a *Aggregator) assemble(ctx context.Context, filter payment.Filter, outcomes []fetchOutcome, elapsed time.Duration) payment.Ledger {
	ledger := payment.Ledger{
		Payments: []payment.ConsolidatedPayment{},
		Sources:  make([]payment.SourceStatus, 0, len(a.adapters)),
	}

	for i, adapter := range a.adapters {
		source := adapter.Source()
		if filter.Skips(source) {
			ledger.Sources = append(ledger.Sources, payment.SourceStatus{Source: source, Skipped: true})
			continue
		}

		out := outcomes[i]
		if !out.done {
			out = fetchOutcome{
				result:   payment.Err(source, payment.ErrorKindTimeout, detailDeadline),
				duration: elapsed,
			}
			a.record(ctx, out)
		}

		status := payment.SourceStatus{Source: source, Duration: out.duration}
		if out.result.Failed() {
			status.Kind = out.result.Kind
			status.Detail = out.result.Detail
		} else {
			status.OK = true
			status.Count = len(out.result.Payments)
			ledger.Payments = append(ledger.Payments, out.result.Payments...)
		}
		ledger.Sources = append(ledger.Sources, status)
	}

	payment.SortLedger(ledger.Payments)
	return ledger
}

// fetch runs one adapter inside its own span and converts a panic into an internal failure
func (a *Aggregator) fetch(ctx context.Context, adapter SourceAdapter, filter payment.Filter) (res payment.SourceResult) {
	source := adapter.Source()
	ctx = logger.WithSource(ctx, string(source))
	ctx, span := telemetry.StartServiceSpan(ctx, "Aggregator", "FetchSource",
		telemetry.WithAttribute(telemetry.SpanAttrSource, string(source)),
	)
	defer func() {
		if r := recover(); r != nil {
			res = payment.Err(source, payment.ErrorKindInternal, fmt.Sprintf("panic: %v", r))
			logger.L(ctx).Error("Payment source panicked",
				zap.String("source", string(source)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
		res.Source = source
		if res.Failed() {
			res.Payments = nil
			telemetry.SetAttributes(span,
				telemetry.SpanAttrErrorKind, string(res.Kind),
			)
			telemetry.RecordError(span, fmt.Errorf("%s: %s", res.Kind, res.Detail))
		} else {
			telemetry.SetAttributes(span, telemetry.SpanAttrRecordCount, len(res.Payments))
			telemetry.SetOK(span)
		}
		span.End()
	}()

	return adapter.Fetch(ctx, filter)
}

// record logs and meters one source outcome. Results discarded after the deadline are not recorded.
func (a *Aggregator) record(ctx context.Context, out fetchOutcome) {
	source := string(out.result.Source)
	if !out.result.Failed() {
		a.metrics.RecordSourceFetch(ctx, source, out.duration, len(out.result.Payments), "")
		return
	}
	logger.L(ctx).Warn("Payment source failed",
		zap.String("source", source),
		zap.String("error_kind", string(out.result.Kind)),
		zap.String("detail", out.result.Detail),
		zap.Duration("duration", out.duration),
	)
	a.metrics.RecordSourceFetch(ctx, source, out.duration, 0, string(out.result.Kind))
}
