package payment

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrorKind classifies why a source contributed nothing to a ledger
type ErrorKind string

const (
	ErrorKindNone        ErrorKind = ""
	ErrorKindQueryFailed ErrorKind = "query_failed"
	ErrorKindTimeout     ErrorKind = "timeout"
	ErrorKindCanceled    ErrorKind = "canceled"
	ErrorKindInternal    ErrorKind = "internal"
	ErrorKindCircuitOpen ErrorKind = "circuit_open"
)

// ClassifyError maps a reader error to an ErrorKind
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorKindTimeout
	case errors.Is(err, context.Canceled):
		return ErrorKindCanceled
	default:
		return ErrorKindQueryFailed
	}
}

// SourceResult is what a single adapter hands back to the aggregator:
// either records, or an error kind with a detail message.
type SourceResult struct {
	Source   Source
	Payments []ConsolidatedPayment
	Kind     ErrorKind
	Detail   string
}

// Ok builds a successful result
func Ok(source Source, payments []ConsolidatedPayment) SourceResult {
	return SourceResult{Source: source, Payments: payments}
}

// Err builds a failed result. Failed results never carry records.
func Err(source Source, kind ErrorKind, detail string) SourceResult {
	return SourceResult{Source: source, Kind: kind, Detail: detail}
}

// Failed reports whether the source failed
func (r SourceResult) Failed() bool {
	return r.Kind != ErrorKindNone
}

// SourceStatus reports the health of one source for a single request
type SourceStatus struct {
	Source   Source
	Skipped  bool
	OK       bool
	Count    int
	Kind     ErrorKind
	Detail   string
	Duration time.Duration
}

// Ledger is the merged, time-ordered result of a consolidation request
type Ledger struct {
	Payments []ConsolidatedPayment
	Sources  []SourceStatus
}

// Degraded reports whether any queried source failed
func (l Ledger) Degraded() bool {
	for _, s := range l.Sources {
		if !s.Skipped && !s.OK {
			return true
		}
	}
	return false
}

// FailedSources lists the sources that failed
func (l Ledger) FailedSources() []Source {
	var failed []Source
	for _, s := range l.Sources {
		if !s.Skipped && !s.OK {
			failed = append(failed, s.Source)
		}
	}
	return failed
}

// SortLedger orders payments by CreatedAt, most recent first.
// Ties are broken by Source ascending, then by original id descending,
// so repeated calls over unchanged data return identical order.
func SortLedger(payments []ConsolidatedPayment) {
	sort.SliceStable(payments, func(i, j int) bool {
		a, b := payments[i], payments[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.OriginalID > b.OriginalID
	})
}
