package models

import (
	"time"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// POSSaleStatusCompleted is the only sale status that represents money received
const POSSaleStatusCompleted = "completed"

// POSSaleModel is a point-of-sale ticket
type POSSaleModel struct {
	BaseModel
	RegisterType string          `gorm:"type:varchar(50);not null"`
	CustomerName *string         `gorm:"type:varchar(200)"`
	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'completed';index"`
	SoldAt       time.Time       `gorm:"not null;index"`
	PaymentColumns
}

// TableName returns the table name for GORM
func (POSSaleModel) TableName() string {
	return "pos_sales"
}

// ToDomain converts the model to the POS payload
func (m *POSSaleModel) ToDomain() payment.POSSale {
	return payment.POSSale{
		ID:            m.ID,
		RegisterType:  m.RegisterType,
		CustomerName:  deref(m.CustomerName),
		Total:         m.Total,
		PaymentMethod: m.PaymentMethod,
		Reference:     m.Reference,
		BankReference: m.BankReference,
		BankAccount:   m.BankAccount,
		SoldAt:        m.SoldAt,
	}
}
