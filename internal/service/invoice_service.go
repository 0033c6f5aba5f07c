package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"invoicer/internal/domain"
	"invoicer/internal/invoice"
	"invoicer/internal/notify"
	"invoicer/internal/port"
	"invoicer/internal/shopify"
	"invoicer/internal/validator"
)

// SuccessMessage is returned with every generated invoice.
const SuccessMessage = "Invoice generated and uploaded to S3 successfully"

// Auditor runs the post-transform self-check.
type Auditor interface {
	Audit(ctx context.Context, doc *invoice.Document) validator.Report
}

// InvoiceServiceConfig holds pipeline settings.
type InvoiceServiceConfig struct {
	Bucket     string
	PresignTTL time.Duration
	// SellerState is used when the template has no company state.
	SellerState string
	// UploadRetries bounds the retries after the first upload attempt.
	UploadRetries int
	// UploadBackoff is the initial retry interval.
	UploadBackoff time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// PreviewResult is a transformed invoice with its audit, without any side effects.
type PreviewResult struct {
	Document       *invoice.Document     `json:"document"`
	Audit          validator.Report      `json:"audit"`
	TemplateSource domain.TemplateSource `json:"template_source"`
}

// InvoiceRecord is a stored order invoice with a fresh download link.
type InvoiceRecord struct {
	Invoice     *domain.OrderInvoice `json:"invoice"`
	DownloadURL string               `json:"download_url,omitempty"`
}

// InvoiceService defines the invoice pipeline contract.
type InvoiceService interface {
	Process(ctx context.Context, wh *shopify.Webhook) (*domain.InvoiceResult, error)
	Preview(ctx context.Context, wh *shopify.Webhook) (*PreviewResult, error)
	Enqueue(ctx context.Context, wh *shopify.Webhook) (*domain.OrderInvoice, error)
	ProcessQueued(ctx context.Context, rec *domain.OrderInvoice, maxAttempts int)
	GetInvoice(ctx context.Context, shop, orderName string) (*InvoiceRecord, error)
	ListInvoices(ctx context.Context, shop string, offset, limit int) ([]domain.OrderInvoice, int, error)
}

type invoiceService struct {
	repo      port.OrderInvoiceRepository
	templates port.TemplateResolver
	renderer  port.InvoiceRenderer
	storage   port.ObjectStorage
	notifier  port.Notifier
	auditor   Auditor
	cfg       InvoiceServiceConfig
	log       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService. repo may be nil, in which
// case invoices are generated without bookkeeping and queueing is unavailable.
func NewInvoiceService(
	repo port.OrderInvoiceRepository,
	templates port.TemplateResolver,
	renderer port.InvoiceRenderer,
	storage port.ObjectStorage,
	notifier port.Notifier,
	auditor Auditor,
	cfg InvoiceServiceConfig,
	log *zap.Logger,
) InvoiceService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.UploadBackoff <= 0 {
		cfg.UploadBackoff = 200 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &invoiceService{
		repo:      repo,
		templates: templates,
		renderer:  renderer,
		storage:   storage,
		notifier:  notifier,
		auditor:   auditor,
		cfg:       cfg,
		log:       log.Named("invoice"),
	}
}

// ObjectKey returns the storage key of an invoice PDF.
func ObjectKey(shop, orderName string, at time.Time) string {
	if shop == "" {
		shop = "default"
	}
	return fmt.Sprintf("shops/%s/invoices/invoice-%s-%d.pdf",
		strings.ReplaceAll(shop, ".", "-"),
		strings.Replace(orderName, "#", "", 1),
		at.UnixMilli())
}

// FormatSize renders a byte count as kilobytes with two decimals.
func FormatSize(n int) string {
	return fmt.Sprintf("%.2f KB", float64(n)/1024)
}

func (s *invoiceService) build(ctx context.Context, wh *shopify.Webhook) (*invoice.Document, domain.TemplateConfig, validator.Report, error) {
	if wh == nil || wh.Order == nil {
		return nil, domain.TemplateConfig{}, validator.Report{}, fmt.Errorf("invoiceService.build: empty webhook: %w", domain.ErrUpstreamParse)
	}

	tc := s.templates.Resolve(ctx, wh.Shop)
	sellerState := tc.Company.Address.State
	if sellerState == "" {
		sellerState = s.cfg.SellerState
	}

	doc, err := invoice.Transform(wh.Order.Normalize(), sellerState)
	if err != nil {
		return nil, tc, validator.Report{}, err
	}

	var report validator.Report
	if s.auditor != nil {
		report = s.auditor.Audit(ctx, doc)
	}
	return doc, tc, report, nil
}

func (s *invoiceService) Preview(ctx context.Context, wh *shopify.Webhook) (*PreviewResult, error) {
	doc, tc, report, err := s.build(ctx, wh)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Document: doc, Audit: report, TemplateSource: tc.Source}, nil
}

func (s *invoiceService) Process(ctx context.Context, wh *shopify.Webhook) (*domain.InvoiceResult, error) {
	doc, tc, report, err := s.build(ctx, wh)
	if err != nil {
		return nil, err
	}
	log := s.log.With(zap.String("shop", wh.Shop), zap.String("order", doc.Order.Name))
	log.Info("invoice transformed",
		zap.String("template_source", string(tc.Source)),
		zap.String("regime", string(doc.Regime)),
		zap.Int("rows", len(doc.LineItems)),
		zap.Int("audit_failures", len(report.Failed())),
	)

	pdf, err := s.renderer.Render(ctx, doc, tc)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Process: %w", err)
	}

	now := s.cfg.Now()
	key := ObjectKey(wh.Shop, doc.Order.Name, now)
	if err := s.upload(ctx, key, pdf); err != nil {
		return nil, err
	}
	log.Info("invoice uploaded", zap.String("key", key), zap.Int("bytes", len(pdf)))

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Process: presigning %s: %w", key, err)
	}

	if s.repo != nil {
		if err := s.repo.MarkGenerated(ctx, wh.Shop, doc.Order.Name, key, now.UTC(), len(report.Failed())); err != nil {
			log.Error("recording generated invoice", zap.Error(err))
		}
	}

	return &domain.InvoiceResult{
		Message:     SuccessMessage,
		FileName:    key,
		S3URL:       url,
		OrderNumber: doc.Order.Name,
		PDFSize:     FormatSize(len(pdf)),
		Notified:    s.notify(ctx, log, doc, tc, url),
	}, nil
}

func (s *invoiceService) upload(ctx context.Context, key string, pdf []byte) error {
	attempt := 0
	operation := func() error {
		attempt++
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(pdf),
			ContentType: "application/pdf",
			Size:        int64(len(pdf)),
		})
		if err != nil {
			s.log.Warn("invoice upload attempt failed", zap.String("key", key), zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = s.cfg.UploadBackoff
	expBackoff.MaxInterval = 8 * s.cfg.UploadBackoff
	expBackoff.MaxElapsedTime = 0

	retries := s.cfg.UploadRetries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(retries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("invoiceService.upload %s after %d attempts: %w: %w", key, attempt, domain.ErrUploadFailed, err)
	}
	return nil
}

// notify is best-effort: failures are logged and reported as not notified.
func (s *invoiceService) notify(ctx context.Context, log *zap.Logger, doc *invoice.Document, tc domain.TemplateConfig, url string) bool {
	if s.notifier == nil {
		return false
	}
	msg, ok, err := notify.BuildMessage(doc, tc, url)
	if err != nil {
		log.Error("building notification", zap.Error(err))
		return false
	}
	if !ok {
		log.Info("no notification recipient configured, skipping")
		return false
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		log.Error("sending notification", zap.String("to", msg.Recipient), zap.Error(err))
		return false
	}
	log.Info("notification sent", zap.String("to", msg.Recipient))
	return true
}

func (s *invoiceService) Enqueue(ctx context.Context, wh *shopify.Webhook) (*domain.OrderInvoice, error) {
	if s.repo == nil {
		return nil, errors.New("invoiceService.Enqueue: no repository configured")
	}
	if wh == nil || wh.Order == nil {
		return nil, fmt.Errorf("invoiceService.Enqueue: empty webhook: %w", domain.ErrUpstreamParse)
	}
	order := wh.Order.Normalize()
	if order.LineItems == nil {
		return nil, fmt.Errorf("invoiceService.Enqueue %q: line items missing: %w", order.Name, domain.ErrUpstreamParse)
	}
	if order.Name == "" {
		return nil, fmt.Errorf("invoiceService.Enqueue: order name missing: %w", domain.ErrUpstreamParse)
	}

	rec, err := s.repo.Enqueue(ctx, wh.Shop, order.Name, wh.Raw)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Enqueue: %w", err)
	}
	s.log.Info("invoice queued", zap.String("shop", wh.Shop), zap.String("order", order.Name), zap.Stringer("id", rec.ID))
	return rec, nil
}

// ProcessQueued runs the pipeline for a claimed record. Payloads that can
// never succeed are failed immediately; other errors are retried until
// maxAttempts.
func (s *invoiceService) ProcessQueued(ctx context.Context, rec *domain.OrderInvoice, maxAttempts int) {
	log := s.log.With(zap.String("shop", rec.Shop), zap.String("order", rec.OrderName), zap.Stringer("id", rec.ID))

	wh, err := shopify.FromRaw(rec.Shop, rec.Payload)
	if err == nil {
		_, err = s.Process(ctx, wh)
	}
	if err == nil {
		return
	}

	attempts := maxAttempts
	if errors.Is(err, domain.ErrUpstreamParse) {
		attempts = 0
	}
	log.Error("queued invoice failed", zap.Int("attempt", rec.Attempts), zap.Error(err))
	if s.repo == nil {
		return
	}
	if markErr := s.repo.MarkFailed(ctx, rec.ID, err.Error(), attempts); markErr != nil {
		log.Error("marking invoice failed", zap.Error(markErr))
	}
}

func (s *invoiceService) GetInvoice(ctx context.Context, shop, orderName string) (*InvoiceRecord, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("invoiceService.GetInvoice: %w", domain.ErrNotFound)
	}
	rec, err := s.repo.GetByOrder(ctx, shop, orderName)
	if errors.Is(err, domain.ErrNotFound) && !strings.HasPrefix(orderName, "#") {
		rec, err = s.repo.GetByOrder(ctx, shop, "#"+orderName)
	}
	if err != nil {
		return nil, err
	}

	out := &InvoiceRecord{Invoice: rec}
	if rec.InvoiceGenerated && rec.S3Key != nil && *rec.S3Key != "" {
		url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, *rec.S3Key, s.cfg.PresignTTL)
		if err != nil {
			return nil, fmt.Errorf("invoiceService.GetInvoice: presigning: %w", err)
		}
		out.DownloadURL = url
	}
	return out, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, shop string, offset, limit int) ([]domain.OrderInvoice, int, error) {
	if s.repo == nil {
		return []domain.OrderInvoice{}, 0, nil
	}
	return s.repo.ListByShop(ctx, shop, offset, limit)
}
