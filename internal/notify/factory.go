package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"invoicer/internal/config"
	"invoicer/internal/domain"
	"invoicer/internal/notify/noop"
	"invoicer/internal/notify/resend"
	"invoicer/internal/notify/sendgrid"
	"invoicer/internal/notify/ses"
	"invoicer/internal/notify/sqs"
	"invoicer/internal/port"
)

// New builds the Notifier selected by cfg.Provider. An empty provider is noop.
func New(ctx context.Context, cfg *config.NotifyConfig, logger *zap.Logger) (port.Notifier, error) {
	logger = logger.Named("notify")
	switch domain.NotifyProvider(strings.ToLower(strings.TrimSpace(cfg.Provider))) {
	case "", domain.NotifyProviderNoop:
		return noop.NewNoopNotifier(logger), nil
	case domain.NotifyProviderSES:
		return ses.NewSESNotifier(ctx, cfg.Region, cfg.FromAddress, cfg.FromName)
	case domain.NotifyProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("notify: sendgrid api key is required")
		}
		return sendgrid.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.FromAddress, cfg.FromName), nil
	case domain.NotifyProviderResend:
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("notify: resend api key is required")
		}
		return resend.NewResendNotifier(cfg.ResendAPIKey, cfg.FromAddress, cfg.FromName, logger)
	case domain.NotifyProviderSQS:
		return sqs.NewSQSNotifier(ctx, cfg.Region, cfg.SQSQueueURL)
	default:
		return nil, fmt.Errorf("notify: unknown provider %q", cfg.Provider)
	}
}
