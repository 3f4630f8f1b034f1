package models

import (
	"time"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// ReservationModel is a room reservation
type ReservationModel struct {
	BaseModel
	GuestName string    `gorm:"type:varchar(200);not null"`
	CheckIn   time.Time `gorm:"not null"`
	CheckOut  time.Time `gorm:"not null"`
	Status    string    `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ReservationModel) TableName() string {
	return "reservations"
}

// ReservationPaymentModel is a deposit or balance payment on a reservation
type ReservationPaymentModel struct {
	BaseModel
	ReservationID int64           `gorm:"not null;index"`
	PaymentType   string          `gorm:"type:varchar(30)"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAt        time.Time       `gorm:"not null;index"`
	PaymentColumns
}

// TableName returns the table name for GORM
func (ReservationPaymentModel) TableName() string {
	return "reservation_payments"
}

// ReservationPaymentRow is a reservation payment joined with its guest
type ReservationPaymentRow struct {
	ReservationPaymentModel
	GuestName *string
}

// ToDomain converts the row to the reservation payload
func (r *ReservationPaymentRow) ToDomain() payment.ReservationPayment {
	return payment.ReservationPayment{
		ID:            r.ID,
		ReservationID: r.ReservationID,
		GuestName:     deref(r.GuestName),
		PaymentType:   r.PaymentType,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		BankReference: r.BankReference,
		BankAccount:   r.BankAccount,
		PaidAt:        r.PaidAt,
	}
}
