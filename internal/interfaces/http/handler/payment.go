package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/interfaces/http/dto"
	"github.com/hotelops/backend/internal/interfaces/http/middleware"
)

// PaymentConsolidator is the consolidation engine as seen by the HTTP layer
type PaymentConsolidator interface {
	GetConsolidatedPayments(ctx context.Context, filter payment.Filter) (payment.Ledger, error)
	GetConsolidatedPaymentsStats(ctx context.Context, filter payment.Filter) (payment.StatsReport, error)
	GetPaymentsForReconciliation(ctx context.Context, filter payment.Filter) (payment.Ledger, error)
}

// PaymentHandler handles the consolidated payment endpoints
type PaymentHandler struct {
	BaseHandler
	service  PaymentConsolidator
	location *time.Location
}

// NewPaymentHandler creates a new PaymentHandler. Calendar dates in queries are
// read in loc; nil means UTC.
func NewPaymentHandler(service PaymentConsolidator, loc *time.Location) *PaymentHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentHandler{
		service:  service,
		location: loc,
	}
}

// GetConsolidated godoc
// @Summary      List consolidated payments
// @Description  Merged, signed ledger of every payment source, newest first
// @Tags         payments
// @Produce      json
// @Param        date_from      query string false "Start date (YYYY-MM-DD)"
// @Param        date_to        query string false "End date, inclusive (YYYY-MM-DD)"
// @Param        source         query string false "Restrict to one source" Enums(pos, reservation, supplier, invoice, petty_cash_income, petty_cash_expense)
// @Param        payment_method query string false "Exact payment method"
// @Param        min_amount     query string false "Minimum absolute amount"
// @Param        max_amount     query string false "Maximum absolute amount"
// @Param        type           query string false "Direction" Enums(income, expense)
// @Success      200 {object} dto.Response{data=LedgerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payments/consolidated [get]
func (h *PaymentHandler) GetConsolidated(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	ledger, err := h.service.GetConsolidatedPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, ToLedgerResponse(ledger, h.location), dto.Meta{
		Total:    int64(len(ledger.Payments)),
		Degraded: ledger.Degraded(),
	})
}

// GetStats godoc
// @Summary      Consolidated payment statistics
// @Description  Totals, net amount and breakdowns by source and payment method
// @Tags         payments
// @Produce      json
// @Param        date_from      query string false "Start date (YYYY-MM-DD)"
// @Param        date_to        query string false "End date, inclusive (YYYY-MM-DD)"
// @Param        source         query string false "Restrict to one source"
// @Param        payment_method query string false "Exact payment method"
// @Param        min_amount     query string false "Minimum absolute amount"
// @Param        max_amount     query string false "Maximum absolute amount"
// @Param        type           query string false "Direction" Enums(income, expense)
// @Success      200 {object} dto.Response{data=StatsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payments/consolidated/stats [get]
func (h *PaymentHandler) GetStats(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	report, err := h.service.GetConsolidatedPaymentsStats(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := ToStatsResponse(report)
	h.SuccessWithMeta(c, resp, dto.Meta{
		Total:    int64(report.Stats.TotalPayments),
		Degraded: resp.Degraded,
	})
}

// GetReconciliation godoc
// @Summary      Payments for bank reconciliation
// @Description  Ledger entries likely to appear on a bank statement
// @Tags         payments
// @Produce      json
// @Param        date_from      query string false "Start date (YYYY-MM-DD)"
// @Param        date_to        query string false "End date, inclusive (YYYY-MM-DD)"
// @Param        source         query string false "Restrict to one source"
// @Param        payment_method query string false "Exact payment method"
// @Param        min_amount     query string false "Minimum absolute amount"
// @Param        max_amount     query string false "Maximum absolute amount"
// @Param        type           query string false "Direction" Enums(income, expense)
// @Success      200 {object} dto.Response{data=LedgerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payments/reconciliation [get]
func (h *PaymentHandler) GetReconciliation(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	ledger, err := h.service.GetPaymentsForReconciliation(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, ToLedgerResponse(ledger, h.location), dto.Meta{
		Total:    int64(len(ledger.Payments)),
		Degraded: ledger.Degraded(),
	})
}

// bindFilter binds and converts the query. On failure the response is written
// and ok is false.
func (h *PaymentHandler) bindFilter(c *gin.Context) (payment.Filter, bool) {
	var q PaymentFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return payment.Filter{}, false
	}

	filter, err := q.ToFilter(h.location)
	if err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return payment.Filter{}, false
	}
	return filter, true
}
