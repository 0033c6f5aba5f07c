package port

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"invoicer/internal/domain"
)

// OrderInvoiceRepository defines the contract for order invoice persistence.
// Orders are keyed by shop and order name.
type OrderInvoiceRepository interface {
	// Enqueue stores the payload and resets the record to queued.
	Enqueue(ctx context.Context, shop, orderName string, payload json.RawMessage) (*domain.OrderInvoice, error)
	// ClaimQueued atomically moves up to limit queued records to processing.
	ClaimQueued(ctx context.Context, limit int) ([]domain.OrderInvoice, error)
	MarkGenerated(ctx context.Context, shop, orderName, s3Key string, at time.Time, auditWarnings int) error
	// MarkFailed records the error and requeues the record until maxAttempts is reached.
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int) error
	GetByOrder(ctx context.Context, shop, orderName string) (*domain.OrderInvoice, error)
	ListByShop(ctx context.Context, shop string, offset, limit int) ([]domain.OrderInvoice, int, error)
}

// TemplateConfigRepository defines the contract for shop and template lookups.
type TemplateConfigRepository interface {
	GetShop(ctx context.Context, shop string) (*domain.Shop, error)
	GetShopTemplate(ctx context.Context, shop, templateID string) (*domain.ShopTemplate, error)
	GetTemplate(ctx context.Context, templateID string) (*domain.Template, error)
	UpsertShopTemplate(ctx context.Context, st *domain.ShopTemplate) error
}
