package models

import (
	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// PettyCashIncomeModel is money entering a petty-cash session.
// CreatedAt is the business timestamp for petty-cash movements.
type PettyCashIncomeModel struct {
	BaseModel
	SessionID     *int64          `gorm:"index"`
	Description   *string         `gorm:"type:varchar(500)"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod *string         `gorm:"type:varchar(50)"`
	Reference     *string         `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (PettyCashIncomeModel) TableName() string {
	return "petty_cash_incomes"
}

// ToDomain converts the model to the petty-cash income payload
func (m *PettyCashIncomeModel) ToDomain() payment.PettyCashIncome {
	return payment.PettyCashIncome{
		ID:            m.ID,
		SessionID:     m.SessionID,
		Description:   m.Description,
		Amount:        m.Amount,
		PaymentMethod: m.PaymentMethod,
		Reference:     m.Reference,
		CreatedAt:     m.CreatedAt,
	}
}

// PettyCashExpenseModel is money leaving a petty-cash session. Amount is stored unsigned.
type PettyCashExpenseModel struct {
	BaseModel
	SessionID     *int64          `gorm:"index"`
	Category      string          `gorm:"type:varchar(50)"`
	Description   *string         `gorm:"type:varchar(500)"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod *string         `gorm:"type:varchar(50)"`
	Reference     *string         `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (PettyCashExpenseModel) TableName() string {
	return "petty_cash_expenses"
}

// ToDomain converts the model to the petty-cash expense payload
func (m *PettyCashExpenseModel) ToDomain() payment.PettyCashExpense {
	return payment.PettyCashExpense{
		ID:            m.ID,
		SessionID:     m.SessionID,
		Category:      m.Category,
		Description:   m.Description,
		Amount:        m.Amount,
		PaymentMethod: m.PaymentMethod,
		Reference:     m.Reference,
		CreatedAt:     m.CreatedAt,
	}
}
