package handler

import (
	"fmt"
	"time"

	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// PaymentFilterQuery is the query string shared by the payment endpoints
type PaymentFilterQuery struct {
	DateFrom      string `form:"date_from" binding:"omitempty,date_only"`
	DateTo        string `form:"date_to" binding:"omitempty,date_only"`
	Source        string `form:"source" binding:"omitempty,payment_source"`
	PaymentMethod string `form:"payment_method" binding:"omitempty,max=50"`
	MinAmount     string `form:"min_amount" binding:"omitempty,decimal_amount"`
	MaxAmount     string `form:"max_amount" binding:"omitempty,decimal_amount"`
	Type          string `form:"type" binding:"omitempty,payment_type"`
}

// ToFilter converts the query into a domain filter. Dates are calendar days in
// loc; date_to covers the whole day.
func (q PaymentFilterQuery) ToFilter(loc *time.Location) (payment.Filter, error) {
	var f payment.Filter

	if q.DateFrom != "" {
		from, err := time.ParseInLocation(middleware.DateLayout, q.DateFrom, loc)
		if err != nil {
			return f, fmt.Errorf("date_from: %w", err)
		}
		f.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.ParseInLocation(middleware.DateLayout, q.DateTo, loc)
		if err != nil {
			return f, fmt.Errorf("date_to: %w", err)
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
		f.DateTo = &to
	}
	if q.Source != "" {
		s, err := payment.ParseSource(q.Source)
		if err != nil {
			return f, err
		}
		f.Source = &s
	}
	if q.Type != "" {
		t, err := payment.ParsePaymentType(q.Type)
		if err != nil {
			return f, err
		}
		f.Type = &t
	}
	if q.MinAmount != "" {
		d, err := decimal.NewFromString(q.MinAmount)
		if err != nil {
			return f, fmt.Errorf("min_amount: %w", err)
		}
		f.MinAmount = &d
	}
	if q.MaxAmount != "" {
		d, err := decimal.NewFromString(q.MaxAmount)
		if err != nil {
			return f, fmt.Errorf("max_amount: %w", err)
		}
		f.MaxAmount = &d
	}
	f.PaymentMethod = q.PaymentMethod
	return f, nil
}

// ConsolidatedPaymentResponse is one ledger entry
type ConsolidatedPaymentResponse struct {
	ID            string             `json:"id"`
	Source        string             `json:"source"`
	Date          string             `json:"date"`
	Description   string             `json:"description"`
	Amount        float64            `json:"amount"`
	PaymentMethod string             `json:"payment_method"`
	Reference     string             `json:"reference"`
	BankReference string             `json:"bank_reference,omitempty"`
	BankAccount   string             `json:"bank_account,omitempty"`
	SourceData    payment.SourceData `json:"source_data"`
	CreatedAt     time.Time          `json:"created_at"`
	Type          string             `json:"type"`
}

// SourceStatusResponse reports one source's outcome for the request
type SourceStatusResponse struct {
	Source     string `json:"source"`
	Status     string `json:"status"`
	Count      int    `json:"count"`
	ErrorKind  string `json:"error_kind,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Source status values
const (
	SourceStatusOK      = "ok"
	SourceStatusFailed  = "failed"
	SourceStatusSkipped = "skipped"
)

// LedgerResponse is the payload of the consolidated and reconciliation endpoints
type LedgerResponse struct {
	Payments []ConsolidatedPaymentResponse `json:"payments"`
	Sources  []SourceStatusResponse        `json:"sources"`
	Degraded bool                          `json:"degraded"`
}

// BreakdownResponse is a count and signed amount
type BreakdownResponse struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// StatsResponse is the payload of the stats endpoint
type StatsResponse struct {
	TotalPayments   int                          `json:"total_payments"`
	TotalIncome     float64                      `json:"total_income"`
	TotalExpense    float64                      `json:"total_expense"`
	NetAmount       float64                      `json:"net_amount"`
	BySource        map[string]BreakdownResponse `json:"by_source"`
	ByPaymentMethod map[string]BreakdownResponse `json:"by_payment_method"`
	Sources         []SourceStatusResponse       `json:"sources"`
	Degraded        bool                         `json:"degraded"`
}

// ToConsolidatedPaymentResponse converts a ledger entry. The calendar date and
// created_at are rendered in loc, the zone date filters are read in.
func ToConsolidatedPaymentResponse(p payment.ConsolidatedPayment, loc *time.Location) ConsolidatedPaymentResponse {
	if loc == nil {
		loc = time.UTC
	}
	createdAt := p.CreatedAt.In(loc)
	return ConsolidatedPaymentResponse{
		ID:            p.ID,
		Source:        p.Source.String(),
		Date:          payment.TruncateToDate(createdAt).Format(middleware.DateLayout),
		Description:   p.Description,
		Amount:        p.Amount.InexactFloat64(),
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
		BankReference: p.BankReference,
		BankAccount:   p.BankAccount,
		SourceData:    p.SourceData,
		CreatedAt:     createdAt,
		Type:          p.Type.String(),
	}
}

// ToSourceStatusResponses converts source statuses
func ToSourceStatusResponses(statuses []payment.SourceStatus) []SourceStatusResponse {
	out := make([]SourceStatusResponse, len(statuses))
	for i, s := range statuses {
		status := SourceStatusOK
		switch {
		case s.Skipped:
			status = SourceStatusSkipped
		case !s.OK:
			status = SourceStatusFailed
		}
		out[i] = SourceStatusResponse{
			Source:     s.Source.String(),
			Status:     status,
			Count:      s.Count,
			ErrorKind:  string(s.Kind),
			DurationMs: s.Duration.Milliseconds(),
		}
	}
	return out
}

// ToLedgerResponse converts a ledger, rendering dates in loc
func ToLedgerResponse(l payment.Ledger, loc *time.Location) LedgerResponse {
	payments := make([]ConsolidatedPaymentResponse, len(l.Payments))
	for i, p := range l.Payments {
		payments[i] = ToConsolidatedPaymentResponse(p, loc)
	}
	return LedgerResponse{
		Payments: payments,
		Sources:  ToSourceStatusResponses(l.Sources),
		Degraded: l.Degraded(),
	}
}

// ToStatsResponse converts a stats report
func ToStatsResponse(r payment.StatsReport) StatsResponse {
	bySource := make(map[string]BreakdownResponse, len(r.Stats.BySource))
	for bucket, b := range r.Stats.BySource {
		bySource[string(bucket)] = toBreakdownResponse(b)
	}
	byMethod := make(map[string]BreakdownResponse, len(r.Stats.ByPaymentMethod))
	for method, b := range r.Stats.ByPaymentMethod {
		byMethod[method] = toBreakdownResponse(b)
	}

	ledger := payment.Ledger{Sources: r.Sources}
	return StatsResponse{
		TotalPayments:   r.Stats.TotalPayments,
		TotalIncome:     r.Stats.TotalIncome.InexactFloat64(),
		TotalExpense:    r.Stats.TotalExpense.InexactFloat64(),
		NetAmount:       r.Stats.NetAmount.InexactFloat64(),
		BySource:        bySource,
		ByPaymentMethod: byMethod,
		Sources:         ToSourceStatusResponses(r.Sources),
		Degraded:        ledger.Degraded(),
	}
}

func toBreakdownResponse(b payment.Breakdown) BreakdownResponse {
	return BreakdownResponse{Count: b.Count, Amount: b.Amount.InexactFloat64()}
}
