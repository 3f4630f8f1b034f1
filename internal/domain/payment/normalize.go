package payment

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Default descriptions used when the source record has no usable text
const (
	DescriptionPOSFallback         = "Venta POS"
	DescriptionReservationFallback = "Pago de reserva"
	DescriptionSupplierFallback    = "Pago a proveedor"
	DescriptionIncomeFallback      = "Ingreso"
	DescriptionExpenseFallback     = "Gasto"
)

// entry holds the source-agnostic fields a profile needs to build a ConsolidatedPayment
type entry struct {
	originalID    int64
	amount        decimal.Decimal
	timestamp     time.Time
	description   string
	method        *string
	reference     *string
	bankReference *string
	bankAccount   *string
	data          SourceData
}

// build applies the profile's sign, defaults and id scheme.
// Zero amounts are rejected because they cannot carry a direction.
func (p Profile) build(e entry) (ConsolidatedPayment, bool) {
	magnitude := e.amount.Abs()
	if magnitude.IsZero() {
		return ConsolidatedPayment{}, false
	}
	amount := magnitude
	if p.Type == PaymentTypeExpense {
		amount = magnitude.Neg()
	}

	return ConsolidatedPayment{
		ID:            p.PaymentID(e.originalID),
		Source:        p.Source,
		Date:          TruncateToDate(e.timestamp),
		Description:   e.description,
		Amount:        amount,
		PaymentMethod: p.Method(e.method),
		Reference:     p.Reference(e.reference, e.originalID),
		BankReference: trimmed(e.bankReference),
		BankAccount:   trimmed(e.bankAccount),
		SourceData:    e.data,
		CreatedAt:     e.timestamp,
		Type:          p.Type,
		OriginalID:    e.originalID,
	}, true
}

// FromPOSSale normalizes a POS sale
func FromPOSSale(s POSSale) (ConsolidatedPayment, bool) {
	desc := DescriptionPOSFallback
	if rt := strings.TrimSpace(s.RegisterType); rt != "" {
		desc = "Venta " + rt
	}
	if name := strings.TrimSpace(s.CustomerName); name != "" {
		desc += " - " + name
	}
	return ProfileFor(SourcePOS).build(entry{
		originalID:    s.ID,
		amount:        s.Total,
		timestamp:     s.SoldAt,
		description:   desc,
		method:        s.PaymentMethod,
		reference:     s.Reference,
		bankReference: s.BankReference,
		bankAccount:   s.BankAccount,
		data:          s,
	})
}

// FromReservationPayment normalizes a reservation payment
func FromReservationPayment(r ReservationPayment) (ConsolidatedPayment, bool) {
	desc := joinNonEmpty(" - ", r.GuestName, r.PaymentType)
	if desc == "" {
		desc = DescriptionReservationFallback
	}
	return ProfileFor(SourceReservation).build(entry{
		originalID:    r.ID,
		amount:        r.Amount,
		timestamp:     r.PaidAt,
		description:   desc,
		method:        r.PaymentMethod,
		reference:     r.Reference,
		bankReference: r.BankReference,
		bankAccount:   r.BankAccount,
		data:          r,
	})
}

// FromSupplierPayment normalizes a supplier payment into an expense
func FromSupplierPayment(s SupplierPayment) (ConsolidatedPayment, bool) {
	desc := trimmed(s.Description)
	if desc == "" {
		desc = DescriptionSupplierFallback
	}
	if name := strings.TrimSpace(s.SupplierName); name != "" {
		desc += " - " + name
	}
	return ProfileFor(SourceSupplier).build(entry{
		originalID:    s.ID,
		amount:        s.Amount,
		timestamp:     s.PaidAt,
		description:   desc,
		method:        s.PaymentMethod,
		reference:     s.Reference,
		bankReference: s.BankReference,
		bankAccount:   s.BankAccount,
		data:          s,
	})
}

// FromInvoicePayment normalizes an invoice collection
func FromInvoicePayment(i InvoicePayment) (ConsolidatedPayment, bool) {
	desc := "Factura " + strings.TrimSpace(i.InvoiceNumber)
	if name := joinNonEmpty(" ", i.ClientFirstName, i.ClientLastName); name != "" {
		desc += " - " + name
	}
	return ProfileFor(SourceInvoice).build(entry{
		originalID:    i.ID,
		amount:        i.Amount,
		timestamp:     i.PaidAt,
		description:   desc,
		method:        i.PaymentMethod,
		reference:     i.Reference,
		bankReference: i.BankReference,
		bankAccount:   i.BankAccount,
		data:          i,
	})
}

// FromPettyCashIncome normalizes a petty-cash income
func FromPettyCashIncome(i PettyCashIncome) (ConsolidatedPayment, bool) {
	desc := trimmed(i.Description)
	if desc == "" {
		desc = DescriptionIncomeFallback
	}
	return ProfileFor(SourcePettyCashIncome).build(entry{
		originalID:  i.ID,
		amount:      i.Amount,
		timestamp:   i.CreatedAt,
		description: desc,
		method:      i.PaymentMethod,
		reference:   i.Reference,
		data:        i,
	})
}

// FromPettyCashExpense normalizes a petty-cash expense
func FromPettyCashExpense(e PettyCashExpense) (ConsolidatedPayment, bool) {
	desc := trimmed(e.Description)
	if desc == "" {
		desc = DescriptionExpenseFallback
	}
	return ProfileFor(SourcePettyCashExpense).build(entry{
		originalID:  e.ID,
		amount:      e.Amount,
		timestamp:   e.CreatedAt,
		description: desc,
		method:      e.PaymentMethod,
		reference:   e.Reference,
		data:        e,
	})
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
