package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apiPricing "github.com/ryokan-ops/stayboard/internal/api/pricing"
	apiReports "github.com/ryokan-ops/stayboard/internal/api/reports"
	"github.com/ryokan-ops/stayboard/internal/config"
	"github.com/ryokan-ops/stayboard/internal/engine"
	"github.com/ryokan-ops/stayboard/internal/middleware"
	"github.com/ryokan-ops/stayboard/internal/pricing"
	"github.com/ryokan-ops/stayboard/internal/quality"
	redisx "github.com/ryokan-ops/stayboard/internal/redis"
	pricingService "github.com/ryokan-ops/stayboard/internal/service/pricing"
	reportsService "github.com/ryokan-ops/stayboard/internal/service/reports"
	"github.com/ryokan-ops/stayboard/internal/store"
	"github.com/ryokan-ops/stayboard/internal/store/properties"
	"github.com/ryokan-ops/stayboard/internal/store/reservations"
)

// RegisterRoutes wires all HTTP routes.
func RegisterRoutes(r *gin.Engine, log *zap.Logger) {
	r.Use(middleware.MetricsMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Stayboard",
			"description": "Revenue and occupancy dashboard for multi-building guesthouse operations.",
			"version":     "1.0.0",
			"docs":        "/docs",
			"endpoints":   []string{"/v1/health", "/v1/reports", "/v1/pricing", "/metrics"},
		})
	})
	r.GET("/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterDocs(r)
	cfg := config.Load()

	cache := reportCache(cfg, log)
	if cache != nil {
		r.Use(middleware.HybridRateLimit(cache.GetClient(), 50, 100))
	}

	// DI wiring for all services
	db, err := store.NewDB(context.Background(), cfg.PostgresURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Warn("db init failed", zap.Error(err))
		return
	}

	reservationsRepo := reservations.NewReservationsRepository(db, log)
	propertiesRepo := properties.NewPropertiesRepository(db, log)
	cancellationsRepo := store.NewCancellationsRepository(db)

	catalog, err := propertiesRepo.Catalog(context.Background())
	if err != nil {
		log.Warn("catalog load failed", zap.Error(err))
		catalog = engine.Catalog{}
	}

	eng := engine.New(reservationsRepo, catalog, log)
	eng.OnWarning(quality.NewAuditor(log, []string{cfg.KafkaBrokers}).Handle)

	reportsSvc := reportsService.NewService(log, eng, cancellationsRepo, cache)
	pricingSvc := pricingService.NewService(log, pricing.NewClient(cfg.PricingAPIURL, cfg.PricingAPIKey))

	apiReports.NewReportsHandler(log, reportsSvc, cfg.JWTSigningSecret).Register(r)
	apiPricing.NewPricingHandler(log, pricingSvc, cfg.JWTSigningSecret).Register(r)
}

func reportCache(cfg config.Config, log *zap.Logger) *redisx.ReportCache {
	if cfg.ReportCacheTTL <= 0 {
		return nil
	}
	return redisx.NewReportCache(cfg.RedisAddr, time.Duration(cfg.ReportCacheTTL)*time.Second, log)
}
