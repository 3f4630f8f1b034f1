package payment

import (
	"context"
	"sync"
	"time"

	"github.com/hotelops/backend/internal/domain/payment"
)

// fakeReaders implements all six reader interfaces with canned rows.
// Per-source errors, delays and panics can be injected.
type fakeReaders struct {
	posSales     []payment.POSSale
	reservations []payment.ReservationPayment
	suppliers    []payment.SupplierPayment
	invoices     []payment.InvoicePayment
	incomes      []payment.PettyCashIncome
	expenses     []payment.PettyCashExpense

	errs   map[payment.Source]error
	delays map[payment.Source]time.Duration
	panics map[payment.Source]bool

	mu     sync.Mutex
	calls  map[payment.Source]int
	ranges map[payment.Source]payment.DateRange
}

func newFakeReaders() *fakeReaders {
	return &fakeReaders{
		errs:   map[payment.Source]error{},
		delays: map[payment.Source]time.Duration{},
		panics: map[payment.Source]bool{},
		calls:  map[payment.Source]int{},
		ranges: map[payment.Source]payment.DateRange{},
	}
}

func (f *fakeReaders) readers() Readers {
	return Readers{
		POSSales:            f,
		ReservationPayments: f,
		SupplierPayments:    f,
		InvoicePayments:     f,
		PettyCashIncomes:    f,
		PettyCashExpenses:   f,
	}
}

func (f *fakeReaders) callCount(s payment.Source) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[s]
}

func (f *fakeReaders) lastRange(s payment.Source) payment.DateRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ranges[s]
}

func (f *fakeReaders) enter(ctx context.Context, s payment.Source, r payment.DateRange) error {
	f.mu.Lock()
	f.calls[s]++
	f.ranges[s] = r
	delay := f.delays[s]
	shouldPanic := f.panics[s]
	err := f.errs[s]
	f.mu.Unlock()

	if shouldPanic {
		panic("reader exploded")
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeReaders) ListPOSSales(ctx context.Context, r payment.DateRange) ([]payment.POSSale, error) {
	if err := f.enter(ctx, payment.SourcePOS, r); err != nil {
		return nil, err
	}
	return f.posSales, nil
}

func (f *fakeReaders) ListReservationPayments(ctx context.Context, r payment.DateRange) ([]payment.ReservationPayment, error) {
	if err := f.enter(ctx, payment.SourceReservation, r); err != nil {
		return nil, err
	}
	return f.reservations, nil
}

func (f *fakeReaders) ListSupplierPayments(ctx context.Context, r payment.DateRange) ([]payment.SupplierPayment, error) {
	if err := f.enter(ctx, payment.SourceSupplier, r); err != nil {
		return nil, err
	}
	return f.suppliers, nil
}

func (f *fakeReaders) ListInvoicePayments(ctx context.Context, r payment.DateRange) ([]payment.InvoicePayment, error) {
	if err := f.enter(ctx, payment.SourceInvoice, r); err != nil {
		return nil, err
	}
	return f.invoices, nil
}

func (f *fakeReaders) ListPettyCashIncomes(ctx context.Context, r payment.DateRange) ([]payment.PettyCashIncome, error) {
	if err := f.enter(ctx, payment.SourcePettyCashIncome, r); err != nil {
		return nil, err
	}
	return f.incomes, nil
}

func (f *fakeReaders) ListPettyCashExpenses(ctx context.Context, r payment.DateRange) ([]payment.PettyCashExpense, error) {
	if err := f.enter(ctx, payment.SourcePettyCashExpense, r); err != nil {
		return nil, err
	}
	return f.expenses, nil
}

func strPtr(s string) *string { return &s }

func sourcePtr(s payment.Source) *payment.Source { return &s }

func typePtr(t payment.PaymentType) *payment.PaymentType { return &t }

func statusOf(t interface{ Helper() }, ledger payment.Ledger, s payment.Source) payment.SourceStatus {
	t.Helper()
	for _, st := range ledger.Sources {
		if st.Source == s {
			return st
		}
	}
	panic("no status for source " + string(s))
}
