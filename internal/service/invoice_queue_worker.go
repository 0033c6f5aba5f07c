package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"invoicer/internal/port"
)

// InvoiceQueueConfig holds settings for the invoice queue worker.
type InvoiceQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	// JobTimeout bounds a single invoice run.
	JobTimeout time.Duration
}

// InvoiceQueueWorker polls for queued order invoices and dispatches them to the pipeline.
type InvoiceQueueWorker struct {
	repo    port.OrderInvoiceRepository
	service InvoiceService
	cfg     InvoiceQueueConfig
	log     *zap.Logger
	wg      sync.WaitGroup
}

// NewInvoiceQueueWorker creates a new InvoiceQueueWorker.
func NewInvoiceQueueWorker(repo port.OrderInvoiceRepository, svc InvoiceService, cfg InvoiceQueueConfig, log *zap.Logger) *InvoiceQueueWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceQueueWorker{
		repo:    repo,
		service: svc,
		cfg:     cfg,
		log:     log.Named("invoiceQueueWorker"),
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight invoice runs have finished.
func (w *InvoiceQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	w.log.Info("started",
		zap.Duration("poll", w.cfg.PollInterval),
		zap.Int("concurrency", w.cfg.Concurrency),
		zap.Int("max_retries", w.cfg.MaxRetries))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("shutting down, waiting for in-flight invoices")
			w.wg.Wait()
			w.log.Info("shutdown complete")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

func (w *InvoiceQueueWorker) poll(ctx context.Context, sem chan struct{}) {
	available := w.cfg.Concurrency - len(sem)
	if available <= 0 {
		return
	}

	recs, err := w.repo.ClaimQueued(ctx, available)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error("ClaimQueued failed", zap.Error(err))
		}
		return
	}

	for i := range recs {
		rec := recs[i]

		sem <- struct{}{}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }()

			// Detached from the poll context so in-flight invoices finish during shutdown.
			jobCtx, cancel := context.WithTimeout(context.Background(), w.cfg.JobTimeout)
			defer cancel()

			w.log.Info("dispatching invoice",
				zap.String("shop", rec.Shop),
				zap.String("order", rec.OrderName),
				zap.Int("attempt", rec.Attempts))
			w.service.ProcessQueued(jobCtx, &rec, w.cfg.MaxRetries)
		}()
	}
}
