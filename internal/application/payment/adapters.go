package payment

import (
	"context"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SourceAdapter turns the raw records of one source into normalized payments.
// Fetch never returns an error: failures travel inside the SourceResult so that
// one broken source cannot abort a consolidation.
type SourceAdapter interface {
	Source() payment.Source
	Fetch(ctx context.Context, filter payment.Filter) payment.SourceResult
}

// Readers bundles the upstream query interfaces, one per source
type Readers struct {
	POSSales            payment.POSSaleReader
	ReservationPayments payment.ReservationPaymentReader
	SupplierPayments    payment.SupplierPaymentReader
	InvoicePayments     payment.InvoicePaymentReader
	PettyCashIncomes    payment.PettyCashIncomeReader
	PettyCashExpenses   payment.PettyCashExpenseReader
}

// NewAdapters builds the six adapters in the fixed source order
func NewAdapters(r Readers) []SourceAdapter {
	return []SourceAdapter{
		NewPOSSaleAdapter(r.POSSales),
		NewReservationPaymentAdapter(r.ReservationPayments),
		NewSupplierPaymentAdapter(r.SupplierPayments),
		NewInvoicePaymentAdapter(r.InvoicePayments),
		NewPettyCashIncomeAdapter(r.PettyCashIncomes),
		NewPettyCashExpenseAdapter(r.PettyCashExpenses),
	}
}

// NewPOSSaleAdapter adapts completed POS sales
func NewPOSSaleAdapter(r payment.POSSaleReader) SourceAdapter {
	return &readerAdapter[payment.POSSale]{
		source:    payment.SourcePOS,
		list:      r.ListPOSSales,
		normalize: payment.FromPOSSale,
		recordID:  func(s payment.POSSale) int64 { return s.ID },
	}
}

// NewReservationPaymentAdapter adapts reservation deposits and balances
func NewReservationPaymentAdapter(r payment.ReservationPaymentReader) SourceAdapter {
	return &readerAdapter[payment.ReservationPayment]{
		source:    payment.SourceReservation,
		list:      r.ListReservationPayments,
		normalize: payment.FromReservationPayment,
		recordID:  func(p payment.ReservationPayment) int64 { return p.ID },
	}
}

// NewSupplierPaymentAdapter adapts supplier disbursements
func NewSupplierPaymentAdapter(r payment.SupplierPaymentReader) SourceAdapter {
	return &readerAdapter[payment.SupplierPayment]{
		source:    payment.SourceSupplier,
		list:      r.ListSupplierPayments,
		normalize: payment.FromSupplierPayment,
		recordID:  func(p payment.SupplierPayment) int64 { return p.ID },
	}
}

// NewInvoicePaymentAdapter adapts invoice collections
func NewInvoicePaymentAdapter(r payment.InvoicePaymentReader) SourceAdapter {
	return &readerAdapter[payment.InvoicePayment]{
		source:    payment.SourceInvoice,
		list:      r.ListInvoicePayments,
		normalize: payment.FromInvoicePayment,
		recordID:  func(p payment.InvoicePayment) int64 { return p.ID },
	}
}

// NewPettyCashIncomeAdapter adapts petty-cash incomes
func NewPettyCashIncomeAdapter(r payment.PettyCashIncomeReader) SourceAdapter {
	return &readerAdapter[payment.PettyCashIncome]{
		source:    payment.SourcePettyCashIncome,
		list:      r.ListPettyCashIncomes,
		normalize: payment.FromPettyCashIncome,
		recordID:  func(i payment.PettyCashIncome) int64 { return i.ID },
	}
}

// NewPettyCashExpenseAdapter adapts petty-cash expenses
func NewPettyCashExpenseAdapter(r payment.PettyCashExpenseReader) SourceAdapter {
	return &readerAdapter[payment.PettyCashExpense]{
		source:    payment.SourcePettyCashExpense,
		list:      r.ListPettyCashExpenses,
		normalize: payment.FromPettyCashExpense,
		recordID:  func(e payment.PettyCashExpense) int64 { return e.ID },
	}
}

// readerAdapter is the shared fetch/normalize/filter loop. T is the source payload type.
type readerAdapter[T any] struct {
	source    payment.Source
	list      func(ctx context.Context, r payment.DateRange) ([]T, error)
	normalize func(T) (payment.ConsolidatedPayment, bool)
	recordID  func(T) int64
}

func (a *readerAdapter[T]) Source() payment.Source {
	return a.source
}

func (a *readerAdapter[T]) Fetch(ctx context.Context, filter payment.Filter) payment.SourceResult {
	rows, err := a.list(ctx, filter.DateRange())
	if err != nil {
		return payment.Err(a.source, payment.ClassifyError(err), err.Error())
	}

	payments := make([]payment.ConsolidatedPayment, 0, len(rows))
	for _, row := range rows {
		p, ok := a.normalize(row)
		if !ok {
			logger.L(ctx).Debug("Dropping zero-amount payment",
				zap.String("source", string(a.source)),
				zap.Int64("original_id", a.recordID(row)),
			)
			continue
		}
		if !filter.Matches(p) {
			continue
		}
		payments = append(payments, p)
	}
	return payment.Ok(a.source, payments)
}
