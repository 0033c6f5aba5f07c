package port

import (
	"context"

	"invoicer/internal/domain"
)

// Notifier delivers an invoice-ready message.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
