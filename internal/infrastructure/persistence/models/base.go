package models

import "time"

// BaseModel provides the identity and audit columns shared by the hotel tables
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// PaymentColumns are the optional method and traceability columns present on every payment table
type PaymentColumns struct {
	PaymentMethod *string `gorm:"type:varchar(50)"`
	Reference     *string `gorm:"type:varchar(100)"`
	BankReference *string `gorm:"type:varchar(100)"`
	BankAccount   *string `gorm:"type:varchar(50)"`
}

// All returns every model, in dependency order, for schema creation in local and test databases
func All() []any {
	return []any{
		&ClientModel{},
		&SupplierModel{},
		&POSSaleModel{},
		&ReservationModel{},
		&ReservationPaymentModel{},
		&SupplierPaymentModel{},
		&InvoiceModel{},
		&InvoicePaymentModel{},
		&PettyCashIncomeModel{},
		&PettyCashExpenseModel{},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
