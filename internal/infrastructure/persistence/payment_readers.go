package persistence

import (
	"context"
	"fmt"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// applyDateRange bounds column by the inclusive range. Open ends are left unbounded.
func applyDateRange(query *gorm.DB, column string, r payment.DateRange) *gorm.DB {
	if r.From != nil {
		query = query.Where(column+" >= ?", *r.From)
	}
	if r.To != nil {
		query = query.Where(column+" <= ?", *r.To)
	}
	return query
}

// GormPOSSaleReader implements payment.POSSaleReader over pos_sales
type GormPOSSaleReader struct {
	db *gorm.DB
}

// NewGormPOSSaleReader creates a new GormPOSSaleReader
func NewGormPOSSaleReader(db *gorm.DB) *GormPOSSaleReader {
	return &GormPOSSaleReader{db: db}
}

// ListPOSSales lists completed sales with sold_at inside the range
func (r *GormPOSSaleReader) ListPOSSales(ctx context.Context, dr payment.DateRange) ([]payment.POSSale, error) {
	var rows []models.POSSaleModel
	query := r.db.WithContext(ctx).Model(&models.POSSaleModel{}).
		Where("status = ?", models.POSSaleStatusCompleted)
	query = applyDateRange(query, "sold_at", dr)

	if err := query.Order("sold_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list pos sales: %w", err)
	}
	sales := make([]payment.POSSale, len(rows))
	for i := range rows {
		sales[i] = rows[i].ToDomain()
	}
	return sales, nil
}

// GormReservationPaymentReader implements payment.ReservationPaymentReader
type GormReservationPaymentReader struct {
	db *gorm.DB
}

// NewGormReservationPaymentReader creates a new GormReservationPaymentReader
func NewGormReservationPaymentReader(db *gorm.DB) *GormReservationPaymentReader {
	return &GormReservationPaymentReader{db: db}
}

// ListReservationPayments lists reservation payments with paid_at inside the range, joined with the guest name
func (r *GormReservationPaymentReader) ListReservationPayments(ctx context.Context, dr payment.DateRange) ([]payment.ReservationPayment, error) {
	var rows []models.ReservationPaymentRow
	query := r.db.WithContext(ctx).Table("reservation_payments").
		Select("reservation_payments.*, reservations.guest_name AS guest_name").
		Joins("LEFT JOIN reservations ON reservations.id = reservation_payments.reservation_id")
	query = applyDateRange(query, "reservation_payments.paid_at", dr)

	if err := query.Order("reservation_payments.paid_at DESC, reservation_payments.id DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list reservation payments: %w", err)
	}
	payments := make([]payment.ReservationPayment, len(rows))
	for i := range rows {
		payments[i] = rows[i].ToDomain()
	}
	return payments, nil
}

// GormSupplierPaymentReader implements payment.SupplierPaymentReader
type GormSupplierPaymentReader struct {
	db *gorm.DB
}

// NewGormSupplierPaymentReader creates a new GormSupplierPaymentReader
func NewGormSupplierPaymentReader(db *gorm.DB) *GormSupplierPaymentReader {
	return &GormSupplierPaymentReader{db: db}
}

// ListSupplierPayments lists supplier payments with paid_at inside the range, joined with the supplier name
func (r *GormSupplierPaymentReader) ListSupplierPayments(ctx context.Context, dr payment.DateRange) ([]payment.SupplierPayment, error) {
	var rows []models.SupplierPaymentRow
	query := r.db.WithContext(ctx).Table("supplier_payments").
		Select("supplier_payments.*, suppliers.name AS supplier_name").
		Joins("LEFT JOIN suppliers ON suppliers.id = supplier_payments.supplier_id")
	query = applyDateRange(query, "supplier_payments.paid_at", dr)

	if err := query.Order("supplier_payments.paid_at DESC, supplier_payments.id DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list supplier payments: %w", err)
	}
	payments := make([]payment.SupplierPayment, len(rows))
	for i := range rows {
		payments[i] = rows[i].ToDomain()
	}
	return payments, nil
}

// GormInvoicePaymentReader implements payment.InvoicePaymentReader
type GormInvoicePaymentReader struct {
	db *gorm.DB
}

// NewGormInvoicePaymentReader creates a new GormInvoicePaymentReader
func NewGormInvoicePaymentReader(db *gorm.DB) *GormInvoicePaymentReader {
	return &GormInvoicePaymentReader{db: db}
}

// ListInvoicePayments lists invoice payments with paid_at inside the range, joined with invoice and client
func (r *GormInvoicePaymentReader) ListInvoicePayments(ctx context.Context, dr payment.DateRange) ([]payment.InvoicePayment, error) {
	var rows []models.InvoicePaymentRow
	query := r.db.WithContext(ctx).Table("invoice_payments").
		Select("invoice_payments.*, " +
			"invoices.number AS invoice_number, " +
			"clients.first_name AS client_first_name, " +
			"clients.last_name AS client_last_name").
		Joins("LEFT JOIN invoices ON invoices.id = invoice_payments.invoice_id").
		Joins("LEFT JOIN clients ON clients.id = invoices.client_id")
	query = applyDateRange(query, "invoice_payments.paid_at", dr)

	if err := query.Order("invoice_payments.paid_at DESC, invoice_payments.id DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list invoice payments: %w", err)
	}
	payments := make([]payment.InvoicePayment, len(rows))
	for i := range rows {
		payments[i] = rows[i].ToDomain()
	}
	return payments, nil
}

// GormPettyCashIncomeReader implements payment.PettyCashIncomeReader
type GormPettyCashIncomeReader struct {
	db *gorm.DB
}

// NewGormPettyCashIncomeReader creates a new GormPettyCashIncomeReader
func NewGormPettyCashIncomeReader(db *gorm.DB) *GormPettyCashIncomeReader {
	return &GormPettyCashIncomeReader{db: db}
}

// ListPettyCashIncomes lists incomes with created_at inside the range
func (r *GormPettyCashIncomeReader) ListPettyCashIncomes(ctx context.Context, dr payment.DateRange) ([]payment.PettyCashIncome, error) {
	var rows []models.PettyCashIncomeModel
	query := applyDateRange(r.db.WithContext(ctx).Model(&models.PettyCashIncomeModel{}), "created_at", dr)

	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list petty cash incomes: %w", err)
	}
	incomes := make([]payment.PettyCashIncome, len(rows))
	for i := range rows {
		incomes[i] = rows[i].ToDomain()
	}
	return incomes, nil
}

// GormPettyCashExpenseReader implements payment.PettyCashExpenseReader
type GormPettyCashExpenseReader struct {
	db *gorm.DB
}

// NewGormPettyCashExpenseReader creates a new GormPettyCashExpenseReader
func NewGormPettyCashExpenseReader(db *gorm.DB) *GormPettyCashExpenseReader {
	return &GormPettyCashExpenseReader{db: db}
}

// ListPettyCashExpenses lists expenses with created_at inside the range
func (r *GormPettyCashExpenseReader) ListPettyCashExpenses(ctx context.Context, dr payment.DateRange) ([]payment.PettyCashExpense, error) {
	var rows []models.PettyCashExpenseModel
	query := applyDateRange(r.db.WithContext(ctx).Model(&models.PettyCashExpenseModel{}), "created_at", dr)

	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list petty cash expenses: %w", err)
	}
	expenses := make([]payment.PettyCashExpense, len(rows))
	for i := range rows {
		expenses[i] = rows[i].ToDomain()
	}
	return expenses, nil
}

// Compile-time interface checks
var (
	_ payment.POSSaleReader            = (*GormPOSSaleReader)(nil)
	_ payment.ReservationPaymentReader = (*GormReservationPaymentReader)(nil)
	_ payment.SupplierPaymentReader    = (*GormSupplierPaymentReader)(nil)
	_ payment.InvoicePaymentReader     = (*GormInvoicePaymentReader)(nil)
	_ payment.PettyCashIncomeReader    = (*GormPettyCashIncomeReader)(nil)
	_ payment.PettyCashExpenseReader   = (*GormPettyCashExpenseReader)(nil)
)
