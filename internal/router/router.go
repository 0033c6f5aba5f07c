package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoicer/internal/config"
	"invoicer/internal/handler"
	"invoicer/internal/middleware"
	"invoicer/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log *zap.Logger,
	webhookH *handler.WebhookHandler,
	invoiceH *handler.InvoiceHandler,
	shopH *handler.ShopHandler,
	healthH *handler.HealthHandler,
	tokens service.TokenService,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	var limited []gin.HandlerFunc
	if cfg.RateLimit.RPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)
		limited = append(limited, rl.Middleware())
	}

	// Shopify webhooks
	webhooks := r.Group("/webhooks/shopify", limited...)
	webhooks.POST("/orders", middleware.ShopifyHMAC(cfg.Shopify.WebhookSecret, log), webhookH.OrderCreated)

	// Admin API: bearer token scoped to one shop
	v1 := r.Group("/api/v1", limited...)
	v1.Use(middleware.AuthMiddleware(tokens, log))

	invoices := v1.Group("/invoices")
	invoices.POST("/preview", invoiceH.Preview)
	invoices.POST("/preview.csv", invoiceH.PreviewCSV)

	shops := v1.Group("/shops/:shop", middleware.RequireShopAccess())
	shops.GET("/invoices", shopH.ListInvoices)
	shops.GET("/invoices/:order", shopH.GetInvoice)
	shops.GET("/template", shopH.GetTemplate)
	shops.PUT("/template", shopH.UpdateTemplate)

	return r
}
