package payment

import "github.com/shopspring/decimal"

// Breakdown is a count and signed amount for one bucket
type Breakdown struct {
	Count  int
	Amount decimal.Decimal
}

// Stats aggregates a ledger.
// NetAmount always equals TotalIncome - TotalExpense, and the amounts of
// BySource and of ByPaymentMethod each sum to NetAmount.
type Stats struct {
	TotalPayments   int
	TotalIncome     decimal.Decimal
	TotalExpense    decimal.Decimal
	NetAmount       decimal.Decimal
	BySource        map[StatsBucket]Breakdown
	ByPaymentMethod map[string]Breakdown
}

// StatsReport pairs stats with the source health of the ledger they were computed from
type StatsReport struct {
	Stats   Stats
	Sources []SourceStatus
}

// NewStats returns empty stats with every fixed source bucket present
func NewStats() Stats {
	s := Stats{
		TotalIncome:     decimal.Zero,
		TotalExpense:    decimal.Zero,
		NetAmount:       decimal.Zero,
		BySource:        make(map[StatsBucket]Breakdown, len(AllBuckets)),
		ByPaymentMethod: make(map[string]Breakdown),
	}
	for _, b := range AllBuckets {
		s.BySource[b] = Breakdown{Amount: decimal.Zero}
	}
	return s
}

// ComputeStats folds a ledger into Stats in a single pass
func ComputeStats(ledger []ConsolidatedPayment) Stats {
	s := NewStats()
	for _, p := range ledger {
		s.add(p)
	}
	return s
}

func (s *Stats) add(p ConsolidatedPayment) {
	s.TotalPayments++
	if p.Amount.IsPositive() {
		s.TotalIncome = s.TotalIncome.Add(p.Amount)
	} else {
		s.TotalExpense = s.TotalExpense.Add(p.Amount.Abs())
	}
	s.NetAmount = s.NetAmount.Add(p.Amount)

	bucket := ProfileFor(p.Source).Bucket
	s.BySource[bucket] = s.BySource[bucket].plus(p.Amount)

	method := p.PaymentMethod
	if method == "" {
		method = MethodUnspecified
	}
	s.ByPaymentMethod[method] = s.ByPaymentMethod[method].plus(p.Amount)
}

func (b Breakdown) plus(amount decimal.Decimal) Breakdown {
	return Breakdown{Count: b.Count + 1, Amount: b.Amount.Add(amount)}
}
