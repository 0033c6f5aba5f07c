// Package server wires configuration, adapters, and services into the HTTP engine
// shared by the long-running server and the Lambda entry point.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"invoicer/internal/config"
	"invoicer/internal/handler"
	"invoicer/internal/notify"
	"invoicer/internal/port"
	"invoicer/internal/render/pdf"
	"invoicer/internal/repository/postgres"
	"invoicer/internal/router"
	"invoicer/internal/service"
	"invoicer/internal/storage/assets"
	s3storage "invoicer/internal/storage/s3"
	"invoicer/internal/templateconfig"
	"invoicer/internal/validator"
)

const (
	uploadRetries = 3
	uploadBackoff = 250 * time.Millisecond
)

// Server holds the assembled engine and its background worker.
type Server struct {
	Engine *gin.Engine
	// Worker is nil unless async webhooks are enabled with a database.
	Worker *service.InvoiceQueueWorker

	db *sqlx.DB
}

// New builds every dependency from cfg. The caller must Close the server.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	if cfg.Server.Environment == "production" && (cfg.JWT.Secret == "" || cfg.JWT.Secret == config.DefaultJWTSecret) {
		return nil, errors.New("INVOICER_JWT_SECRET must be set in production")
	}
	srv := &Server{}

	var (
		invoiceRepo  port.OrderInvoiceRepository
		templateRepo port.TemplateConfigRepository
		pinger       handler.Pinger
		hsnEntries   []port.HSNEntry
	)
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(ctx, &cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		srv.db = db
		pinger = db
		invoiceRepo = postgres.NewOrderInvoiceRepo(db)
		templateRepo = postgres.NewTemplateConfigRepo(db)

		hsnEntries, err = postgres.NewHSNRepo(db).LoadAll(ctx)
		if err != nil {
			log.Warn("HSN master list unavailable, code checks disabled", zap.Error(err))
		}
	} else {
		log.Info("database disabled, running without invoice records")
	}

	storage, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	notifier, err := notify.New(ctx, &cfg.Notify, log)
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	lookup := validator.NewHSNLookup(hsnEntries)
	log.Info("HSN master list loaded", zap.Int("codes", lookup.Len()))
	auditor := validator.NewEngine(validator.DefaultRegistry(lookup), log)

	templates := templateconfig.NewService(templateRepo, cfg.Invoice, cfg.Company, log)
	renderer := pdf.NewRenderer(assets.NewLoader(storage, cfg.S3.Bucket, cfg.S3.AssetsDir), log)

	invoiceSvc := service.NewInvoiceService(invoiceRepo, templates, renderer, storage, notifier, auditor,
		service.InvoiceServiceConfig{
			Bucket:        cfg.S3.Bucket,
			PresignTTL:    cfg.S3.PresignTTL(),
			SellerState:   cfg.Company.State,
			UploadRetries: uploadRetries,
			UploadBackoff: uploadBackoff,
		}, log)

	async := cfg.Shopify.Async
	if async && invoiceRepo == nil {
		log.Warn("async webhooks need the database, generating inline")
		async = false
	}
	if async {
		srv.Worker = service.NewInvoiceQueueWorker(invoiceRepo, invoiceSvc, service.InvoiceQueueConfig{
			PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
			MaxRetries:   cfg.Queue.MaxRetries,
			Concurrency:  cfg.Queue.Concurrency,
		}, log)
	}

	webhookH := handler.NewWebhookHandler(invoiceSvc, cfg.Shopify.DefaultShopDomain, async, log)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc, cfg.Shopify.DefaultShopDomain)
	shopH := handler.NewShopHandler(invoiceSvc, templates)
	healthH := handler.NewHealthHandler(pinger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv.Engine = router.Setup(cfg, log, webhookH, invoiceH, shopH, healthH, service.NewTokenService(cfg.JWT))
	return srv, nil
}

// Close releases the database pool.
func (s *Server) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}
