package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apppayment "github.com/hotelops/backend/internal/application/payment"
	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/infrastructure/config"
	"github.com/hotelops/backend/internal/infrastructure/logger"
	"github.com/hotelops/backend/internal/infrastructure/persistence"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"github.com/hotelops/backend/internal/interfaces/http/dto"
	"github.com/hotelops/backend/internal/interfaces/http/handler"
	"github.com/hotelops/backend/internal/interfaces/http/middleware"
	"github.com/hotelops/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// newEngine assembles the consolidation engine and its HTTP surface on top of db
func newEngine(cfg *config.Config, log *zap.Logger, db *persistence.Database, mp *telemetry.MeterProvider) (*gin.Engine, error) {
	metrics, err := telemetry.NewConsolidationMetrics(telemetry.ConsolidationMetricsConfig{
		Meter:  mp.Meter("consolidation"),
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("consolidation metrics: %w", err)
	}

	policy := payment.ReconciliationPolicy{
		CardMethods:     cfg.Reconciliation.CardMethods,
		TransferMethods: cfg.Reconciliation.TransferMethods,
		CashMethod:      cfg.Reconciliation.CashMethod,
		CashThreshold:   cfg.Reconciliation.CashThreshold,
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	adapters := apppayment.NewAdapters(apppayment.Readers{
		POSSales:            persistence.NewGormPOSSaleReader(db.DB),
		ReservationPayments: persistence.NewGormReservationPaymentReader(db.DB),
		SupplierPayments:    persistence.NewGormSupplierPaymentReader(db.DB),
		InvoicePayments:     persistence.NewGormInvoicePaymentReader(db.DB),
		PettyCashIncomes:    persistence.NewGormPettyCashIncomeReader(db.DB),
		PettyCashExpenses:   persistence.NewGormPettyCashExpenseReader(db.DB),
	})
	if cfg.Consolidation.BreakerEnabled {
		adapters = apppayment.WithCircuitBreakers(adapters, apppayment.BreakerConfig{
			FailureThreshold: uint32(cfg.Consolidation.BreakerFailureThreshold),
			OpenTimeout:      cfg.Consolidation.BreakerOpenTimeout,
			Logger:           log,
			Metrics:          metrics,
		})
	}
	aggregator := apppayment.NewAggregator(adapters,
		apppayment.WithFetchTimeout(cfg.Consolidation.FetchTimeout),
		apppayment.WithAggregatorMetrics(metrics),
	)
	service := apppayment.NewConsolidationService(aggregator,
		apppayment.WithReconciliationPolicy(policy),
		apppayment.WithServiceMetrics(metrics),
	)

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: mp,
		Enabled:       cfg.Telemetry.MetricsEnabled,
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	engine.Use(middleware.RateLimit(middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.HTTP.RateLimitRPS,
		Burst:             cfg.HTTP.RateLimitBurst,
	})))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, db)
	paymentHandler := handler.NewPaymentHandler(service, cfg.App.Location())

	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.
		Describe("/consolidated", "Signed ledger of every payment source", paymentHandler.GetConsolidated).
		Describe("/consolidated/stats", "Totals and breakdowns of the consolidated ledger", paymentHandler.GetStats).
		Describe("/reconciliation", "Card, transfer and large cash entries for bank matching", paymentHandler.GetReconciliation)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.Describe("/info", "Service name and version", systemHandler.GetSystemInfo)

	r.Register(paymentRoutes).Register(systemRoutes)
	r.Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	for _, route := range r.Routes() {
		log.Debug("Route registered",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
			zap.String("description", route.Description),
		)
	}

	return engine, nil
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
