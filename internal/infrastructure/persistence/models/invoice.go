package models

import (
	"time"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// InvoiceModel is an issued invoice
type InvoiceModel struct {
	BaseModel
	Number   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID int64           `gorm:"not null;index"`
	Total    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IssuedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoicePaymentModel is a collection registered against an invoice
type InvoicePaymentModel struct {
	BaseModel
	InvoiceID int64           `gorm:"not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAt    time.Time       `gorm:"not null;index"`
	PaymentColumns
}

// TableName returns the table name for GORM
func (InvoicePaymentModel) TableName() string {
	return "invoice_payments"
}

// InvoicePaymentRow is an invoice payment joined with its invoice number and client name
type InvoicePaymentRow struct {
	InvoicePaymentModel
	InvoiceNumber   *string
	ClientFirstName *string
	ClientLastName  *string
}

// ToDomain converts the row to the invoice payload
func (r *InvoicePaymentRow) ToDomain() payment.InvoicePayment {
	return payment.InvoicePayment{
		ID:              r.ID,
		InvoiceID:       r.InvoiceID,
		InvoiceNumber:   deref(r.InvoiceNumber),
		ClientFirstName: deref(r.ClientFirstName),
		ClientLastName:  deref(r.ClientLastName),
		Amount:          r.Amount,
		PaymentMethod:   r.PaymentMethod,
		Reference:       r.Reference,
		BankReference:   r.BankReference,
		BankAccount:     r.BankAccount,
		PaidAt:          r.PaidAt,
	}
}
