package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsolidatedPayment is the canonical, signed ledger entry built from one source record.
type ConsolidatedPayment struct {
	ID            string
	Source        Source
	Date          time.Time
	Description   string
	Amount        decimal.Decimal
	PaymentMethod string
	Reference     string
	BankReference string
	BankAccount   string
	SourceData    SourceData
	CreatedAt     time.Time
	Type          PaymentType
	OriginalID    int64
}

// IsIncome reports whether the payment is an income
func (p ConsolidatedPayment) IsIncome() bool {
	return p.Type == PaymentTypeIncome
}

// AbsAmount returns the unsigned magnitude of the payment
func (p ConsolidatedPayment) AbsAmount() decimal.Decimal {
	return p.Amount.Abs()
}

// HasBankTrace reports whether the payment carries a bank reference or account
func (p ConsolidatedPayment) HasBankTrace() bool {
	return p.BankReference != "" || p.BankAccount != ""
}

// AsPOSSale returns the POS payload when the payment comes from a POS sale
func (p ConsolidatedPayment) AsPOSSale() (POSSale, bool) {
	v, ok := p.SourceData.(POSSale)
	return v, ok
}

// AsReservationPayment returns the reservation payload when present
func (p ConsolidatedPayment) AsReservationPayment() (ReservationPayment, bool) {
	v, ok := p.SourceData.(ReservationPayment)
	return v, ok
}

// AsSupplierPayment returns the supplier payload when present
func (p ConsolidatedPayment) AsSupplierPayment() (SupplierPayment, bool) {
	v, ok := p.SourceData.(SupplierPayment)
	return v, ok
}

// AsInvoicePayment returns the invoice payload when present
func (p ConsolidatedPayment) AsInvoicePayment() (InvoicePayment, bool) {
	v, ok := p.SourceData.(InvoicePayment)
	return v, ok
}

// AsPettyCashIncome returns the petty-cash income payload when present
func (p ConsolidatedPayment) AsPettyCashIncome() (PettyCashIncome, bool) {
	v, ok := p.SourceData.(PettyCashIncome)
	return v, ok
}

// AsPettyCashExpense returns the petty-cash expense payload when present
func (p ConsolidatedPayment) AsPettyCashExpense() (PettyCashExpense, bool) {
	v, ok := p.SourceData.(PettyCashExpense)
	return v, ok
}

// SourceData is the original domain record carried for drill-down.
// The set of implementations is closed: one struct per Source.
type SourceData interface {
	Source() Source
	sourceData()
}

// POSSale is a completed point-of-sale sale
type POSSale struct {
	ID            int64           `json:"id"`
	RegisterType  string          `json:"register_type"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Reference     *string         `json:"reference,omitempty"`
	BankReference *string         `json:"bank_reference,omitempty"`
	BankAccount   *string         `json:"bank_account,omitempty"`
	SoldAt        time.Time       `json:"sold_at"`
}

// ReservationPayment is a deposit or balance payment on a reservation
type ReservationPayment struct {
	ID            int64           `json:"id"`
	ReservationID int64           `json:"reservation_id"`
	GuestName     string          `json:"guest_name,omitempty"`
	PaymentType   string          `json:"payment_type,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Reference     *string         `json:"reference,omitempty"`
	BankReference *string         `json:"bank_reference,omitempty"`
	BankAccount   *string         `json:"bank_account,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
}

// SupplierPayment is a disbursement to a supplier. Amount is stored unsigned.
type SupplierPayment struct {
	ID            int64           `json:"id"`
	SupplierID    *int64          `json:"supplier_id,omitempty"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Reference     *string         `json:"reference,omitempty"`
	BankReference *string         `json:"bank_reference,omitempty"`
	BankAccount   *string         `json:"bank_account,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
}

// InvoicePayment is a collection against an issued invoice
type InvoicePayment struct {
	ID              int64           `json:"id"`
	InvoiceID       int64           `json:"invoice_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	ClientFirstName string          `json:"client_first_name,omitempty"`
	ClientLastName  string          `json:"client_last_name,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   *string         `json:"payment_method,omitempty"`
	Reference       *string         `json:"reference,omitempty"`
	BankReference   *string         `json:"bank_reference,omitempty"`
	BankAccount     *string         `json:"bank_account,omitempty"`
	PaidAt          time.Time       `json:"paid_at"`
}

// PettyCashIncome is money entering a petty-cash session
type PettyCashIncome struct {
	ID            int64           `json:"id"`
	SessionID     *int64          `json:"session_id,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Reference     *string         `json:"reference,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PettyCashExpense is money leaving a petty-cash session. Amount is stored unsigned.
type PettyCashExpense struct {
	ID            int64           `json:"id"`
	SessionID     *int64          `json:"session_id,omitempty"`
	Category      string          `json:"category,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Reference     *string         `json:"reference,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (POSSale) Source() Source            { return SourcePOS }
func (ReservationPayment) Source() Source { return SourceReservation }
func (SupplierPayment) Source() Source    { return SourceSupplier }
func (InvoicePayment) Source() Source     { return SourceInvoice }
func (PettyCashIncome) Source() Source    { return SourcePettyCashIncome }
func (PettyCashExpense) Source() Source   { return SourcePettyCashExpense }

func (POSSale) sourceData()            {}
func (ReservationPayment) sourceData() {}
func (SupplierPayment) sourceData()    {}
func (InvoicePayment) sourceData()     {}
func (PettyCashIncome) sourceData()    {}
func (PettyCashExpense) sourceData()   {}

// TruncateToDate drops the clock part of t, keeping its location
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
