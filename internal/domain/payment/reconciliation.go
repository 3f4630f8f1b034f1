package payment

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultCashThreshold is the cash amount above which a deposit is expected on the bank statement
var DefaultCashThreshold = decimal.NewFromInt(50000)

// ReconciliationPolicy decides which ledger entries are worth checking against a bank statement.
// It is a heuristic allow-list; inclusion does not mean the entry will be found on the statement.
type ReconciliationPolicy struct {
	CardMethods     []string
	TransferMethods []string
	CashMethod      string
	CashThreshold   decimal.Decimal
}

// DefaultReconciliationPolicy returns the built-in policy
func DefaultReconciliationPolicy() ReconciliationPolicy {
	return ReconciliationPolicy{
		CardMethods:     []string{MethodCard, "card"},
		TransferMethods: []string{MethodTransfer, "transfer"},
		CashMethod:      MethodCash,
		CashThreshold:   DefaultCashThreshold,
	}
}

// Validate checks that the policy can select anything at all
func (p ReconciliationPolicy) Validate() error {
	if len(p.CardMethods) == 0 {
		return errors.New("reconciliation policy requires at least one card method alias")
	}
	if len(p.TransferMethods) == 0 {
		return errors.New("reconciliation policy requires at least one transfer method alias")
	}
	if p.CashMethod == "" {
		return errors.New("reconciliation policy requires a cash method name")
	}
	if p.CashThreshold.IsNegative() {
		return errors.New("reconciliation cash threshold cannot be negative")
	}
	return nil
}

// IsReconcilable reports whether a single payment should be offered for reconciliation
func (p ReconciliationPolicy) IsReconcilable(pay ConsolidatedPayment) bool {
	if contains(p.CardMethods, pay.PaymentMethod) || contains(p.TransferMethods, pay.PaymentMethod) {
		return true
	}
	if pay.HasBankTrace() {
		return true
	}
	return pay.PaymentMethod == p.CashMethod && pay.AbsAmount().GreaterThan(p.CashThreshold)
}

// SelectReconcilable keeps the payments that pass IsReconcilable, preserving order
func (p ReconciliationPolicy) SelectReconcilable(ledger []ConsolidatedPayment) []ConsolidatedPayment {
	selected := make([]ConsolidatedPayment, 0, len(ledger))
	for _, pay := range ledger {
		if p.IsReconcilable(pay) {
			selected = append(selected, pay)
		}
	}
	return selected
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
