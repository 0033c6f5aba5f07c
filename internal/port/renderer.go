package port

import (
	"context"

	"invoicer/internal/domain"
	"invoicer/internal/invoice"
)

// InvoiceRenderer turns an invoice document into a printable file.
type InvoiceRenderer interface {
	Render(ctx context.Context, doc *invoice.Document, cfg domain.TemplateConfig) ([]byte, error)
}

// AssetLoader fetches logo and signature images by reference.
type AssetLoader interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

// TemplateResolver returns the effective template configuration for a shop.
type TemplateResolver interface {
	Resolve(ctx context.Context, shop string) domain.TemplateConfig
}
