package payment

import (
	"fmt"
	"time"

	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter narrows a consolidation request. All fields are optional.
//
// DateFrom/DateTo are pushed down to each source query as an inclusive range on the
// source's own timestamp column. PaymentMethod, MinAmount/MaxAmount and Type are applied
// after normalization, because they depend on defaulted methods and signed amounts.
type Filter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	Source        *Source
	PaymentMethod string
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	Type          *PaymentType
}

// DateRange is the part of a Filter that source readers apply at query level
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsOpen reports whether the range places no bound at all
func (r DateRange) IsOpen() bool {
	return r.From == nil && r.To == nil
}

// DateRange extracts the query-level date bounds
func (f Filter) DateRange() DateRange {
	return DateRange{From: f.DateFrom, To: f.DateTo}
}

// Validate checks the filter for values that can never match anything meaningful
func (f Filter) Validate() error {
	if f.Source != nil && !f.Source.IsValid() {
		return shared.InvalidInput(fmt.Sprintf("Invalid source: %s", *f.Source))
	}
	if f.Type != nil && !f.Type.IsValid() {
		return shared.InvalidInput(fmt.Sprintf("Invalid payment type: %s", *f.Type))
	}
	if f.MinAmount != nil && f.MinAmount.IsNegative() {
		return shared.InvalidInput("min_amount cannot be negative")
	}
	if f.MaxAmount != nil && f.MaxAmount.IsNegative() {
		return shared.InvalidInput("max_amount cannot be negative")
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.GreaterThan(*f.MaxAmount) {
		return shared.InvalidInput("min_amount cannot exceed max_amount")
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return shared.InvalidInput("date_from cannot be after date_to")
	}
	return nil
}

// Skips reports whether the adapter for source must not be queried at all:
// either another source was requested, or the requested type excludes the
// source's fixed direction.
func (f Filter) Skips(source Source) bool {
	if f.Source != nil && *f.Source != source {
		return true
	}
	if f.Type != nil && ProfileFor(source).Type != *f.Type {
		return true
	}
	return false
}

// Matches applies the in-memory part of the filter to a normalized payment
func (f Filter) Matches(p ConsolidatedPayment) bool {
	if f.Type != nil && p.Type != *f.Type {
		return false
	}
	if f.PaymentMethod != "" && p.PaymentMethod != f.PaymentMethod {
		return false
	}
	abs := p.AbsAmount()
	if f.MinAmount != nil && abs.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && abs.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}
