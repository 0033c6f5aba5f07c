package resend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"invoicer/internal/domain"
	"invoicer/internal/port"
)

type resendNotifier struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	logger    *zap.Logger
}

// Option customizes the Resend notifier.
type Option func(*resendNotifier) error

// WithBaseURL points the client at a different API host.
func WithBaseURL(raw string) Option {
	return func(r *resendNotifier) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("resend base url: %w", err)
		}
		r.client.BaseURL = u
		return nil
	}
}

// NewResendNotifier creates a Resend-backed Notifier.
func NewResendNotifier(apiKey, fromEmail, fromName string, logger *zap.Logger, opts ...Option) (port.Notifier, error) {
	r := &resendNotifier{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *resendNotifier) Notify(ctx context.Context, n domain.Notification) error {
	from := r.fromEmail
	if r.fromName != "" {
		from = fmt.Sprintf("%s <%s>", r.fromName, r.fromEmail)
	}
	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{n.Recipient},
		Subject: n.Subject,
		Html:    n.HTMLBody,
		Text:    n.TextBody,
		Tags: []resend.Tag{
			{Name: "category", Value: "invoice"},
		},
	}

	sent, err := r.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send: %w: %w", domain.ErrNotificationFailed, err)
	}
	r.logger.Info("invoice email sent",
		zap.String("email_id", sent.Id),
		zap.String("order", n.OrderNumber))
	return nil
}
