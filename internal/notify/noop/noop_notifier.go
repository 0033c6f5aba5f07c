package noop

import (
	"context"

	"go.uber.org/zap"

	"invoicer/internal/domain"
	"invoicer/internal/port"
)

type noopNotifier struct {
	logger *zap.Logger
}

// NewNoopNotifier creates a Notifier that only logs what would have been sent.
func NewNoopNotifier(logger *zap.Logger) port.Notifier {
	return &noopNotifier{logger: logger}
}

func (n *noopNotifier) Notify(_ context.Context, msg domain.Notification) error {
	n.logger.Info("[NOOP NOTIFY] invoice ready",
		zap.String("to", msg.Recipient),
		zap.String("subject", msg.Subject),
		zap.String("invoice_url", msg.InvoiceURL),
	)
	return nil
}
