package models

import (
	"time"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// SupplierPaymentModel is a disbursement to a supplier. Amount is stored unsigned.
type SupplierPaymentModel struct {
	BaseModel
	SupplierID  *int64          `gorm:"index"`
	Description *string         `gorm:"type:varchar(500)"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAt      time.Time       `gorm:"not null;index"`
	PaymentColumns
}

// TableName returns the table name for GORM
func (SupplierPaymentModel) TableName() string {
	return "supplier_payments"
}

// SupplierPaymentRow is a supplier payment joined with the supplier name
type SupplierPaymentRow struct {
	SupplierPaymentModel
	SupplierName *string
}

// ToDomain converts the row to the supplier payload
func (r *SupplierPaymentRow) ToDomain() payment.SupplierPayment {
	return payment.SupplierPayment{
		ID:            r.ID,
		SupplierID:    r.SupplierID,
		SupplierName:  deref(r.SupplierName),
		Description:   r.Description,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		BankReference: r.BankReference,
		BankAccount:   r.BankAccount,
		PaidAt:        r.PaidAt,
	}
}
