package payment

import "context"

// The readers below are the query interfaces owned by the source subsystems.
// Each applies the date range on its own timestamp column and returns raw rows;
// normalization happens in the consolidation adapters.

// POSSaleReader lists completed POS sales
type POSSaleReader interface {
	ListPOSSales(ctx context.Context, r DateRange) ([]POSSale, error)
}

// ReservationPaymentReader lists payments received on reservations
type ReservationPaymentReader interface {
	ListReservationPayments(ctx context.Context, r DateRange) ([]ReservationPayment, error)
}

// SupplierPaymentReader lists payments made to suppliers
type SupplierPaymentReader interface {
	ListSupplierPayments(ctx context.Context, r DateRange) ([]SupplierPayment, error)
}

// InvoicePaymentReader lists collections registered against invoices
type InvoicePaymentReader interface {
	ListInvoicePayments(ctx context.Context, r DateRange) ([]InvoicePayment, error)
}

// PettyCashIncomeReader lists petty-cash incomes
type PettyCashIncomeReader interface {
	ListPettyCashIncomes(ctx context.Context, r DateRange) ([]PettyCashIncome, error)
}

// PettyCashExpenseReader lists petty-cash expenses
type PettyCashExpenseReader interface {
	ListPettyCashExpenses(ctx context.Context, r DateRange) ([]PettyCashExpense, error)
}
