package payment

import (
	"fmt"
	"strings"
)

// Source identifies the subsystem a payment record originates from
type Source string

const (
	SourcePOS              Source = "pos"
	SourceReservation      Source = "reservation"
	SourceSupplier         Source = "supplier"
	SourceInvoice          Source = "invoice"
	SourcePettyCashIncome  Source = "petty_cash_income"
	SourcePettyCashExpense Source = "petty_cash_expense"
)

// AllSources lists every source in adapter dispatch order
var AllSources = []Source{
	SourcePOS,
	SourceReservation,
	SourceSupplier,
	SourceInvoice,
	SourcePettyCashIncome,
	SourcePettyCashExpense,
}

// IsValid checks if the source is part of the closed enumeration
func (s Source) IsValid() bool {
	switch s {
	case SourcePOS, SourceReservation, SourceSupplier, SourceInvoice,
		SourcePettyCashIncome, SourcePettyCashExpense:
		return true
	}
	return false
}

// String returns the string representation of Source
func (s Source) String() string {
	return string(s)
}

// ParseSource converts a raw string into a Source
func ParseSource(raw string) (Source, error) {
	s := Source(strings.TrimSpace(raw))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown payment source %q", raw)
	}
	return s, nil
}

// PaymentType is the direction of a payment
type PaymentType string

const (
	PaymentTypeIncome  PaymentType = "income"
	PaymentTypeExpense PaymentType = "expense"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeIncome || t == PaymentTypeExpense
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// ParsePaymentType converts a raw string into a PaymentType
func ParsePaymentType(raw string) (PaymentType, error) {
	t := PaymentType(strings.TrimSpace(raw))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown payment type %q", raw)
	}
	return t, nil
}

// StatsBucket is a key of Stats.BySource. Both petty-cash sources share one bucket.
type StatsBucket string

const (
	BucketPOS         StatsBucket = "pos"
	BucketReservation StatsBucket = "reservation"
	BucketSupplier    StatsBucket = "supplier"
	BucketInvoice     StatsBucket = "invoice"
	BucketPettyCash   StatsBucket = "petty_cash"
)

// AllBuckets lists the fixed keys of Stats.BySource
var AllBuckets = []StatsBucket{
	BucketPOS,
	BucketReservation,
	BucketSupplier,
	BucketInvoice,
	BucketPettyCash,
}

// Payment method names used as domain defaults and by the reconciliation policy
const (
	MethodCash        = "efectivo"
	MethodTransfer    = "transferencia"
	MethodCard        = "tarjeta"
	MethodUnspecified = "sin_especificar"
)

// Profile is the per-source normalization rule set.
// Adapters never hard-code sign, default method or reference tag; they read them from here.
type Profile struct {
	Source        Source
	Type          PaymentType
	DefaultMethod string
	ReferenceTag  string
	Bucket        StatsBucket
}

// Profiles maps every source to its normalization profile
var Profiles = map[Source]Profile{
	SourcePOS: {
		Source:        SourcePOS,
		Type:          PaymentTypeIncome,
		DefaultMethod: MethodCash,
		ReferenceTag:  "POS",
		Bucket:        BucketPOS,
	},
	SourceReservation: {
		Source:        SourceReservation,
		Type:          PaymentTypeIncome,
		DefaultMethod: MethodCash,
		ReferenceTag:  "RES",
		Bucket:        BucketReservation,
	},
	SourceSupplier: {
		Source:        SourceSupplier,
		Type:          PaymentTypeExpense,
		DefaultMethod: MethodTransfer,
		ReferenceTag:  "PROV",
		Bucket:        BucketSupplier,
	},
	SourceInvoice: {
		Source:        SourceInvoice,
		Type:          PaymentTypeIncome,
		DefaultMethod: MethodCash,
		ReferenceTag:  "FAC",
		Bucket:        BucketInvoice,
	},
	SourcePettyCashIncome: {
		Source:        SourcePettyCashIncome,
		Type:          PaymentTypeIncome,
		DefaultMethod: MethodCash,
		ReferenceTag:  "CCI",
		Bucket:        BucketPettyCash,
	},
	SourcePettyCashExpense: {
		Source:        SourcePettyCashExpense,
		Type:          PaymentTypeExpense,
		DefaultMethod: MethodCash,
		ReferenceTag:  "CCE",
		Bucket:        BucketPettyCash,
	},
}

// ProfileFor returns the profile of a source. It panics on an unknown source,
// which can only happen through a programming error since Source is a closed set.
func ProfileFor(s Source) Profile {
	p, ok := Profiles[s]
	if !ok {
		panic(fmt.Sprintf("payment: no profile registered for source %q", s))
	}
	return p
}

// Method returns the given method without surrounding spaces, or the profile
// default when it is blank
func (p Profile) Method(method *string) string {
	if method == nil {
		return p.DefaultMethod
	}
	if m := strings.TrimSpace(*method); m != "" {
		return m
	}
	return p.DefaultMethod
}

// Reference returns the given reference, or "{TAG}-{id}" when it is blank
func (p Profile) Reference(ref *string, originalID int64) string {
	if ref != nil && strings.TrimSpace(*ref) != "" {
		return *ref
	}
	return fmt.Sprintf("%s-%d", p.ReferenceTag, originalID)
}

// PaymentID builds the globally unique consolidated id "{source}-{originalId}"
func (p Profile) PaymentID(originalID int64) string {
	return fmt.Sprintf("%s-%d", p.Source, originalID)
}
