package sendgrid

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"invoicer/internal/domain"
	"invoicer/internal/port"
)

type sendgridNotifier struct {
	client      *sendgrid.Client
	fromAddress string
	fromName    string
}

// Option customizes the SendGrid notifier.
type Option func(*sendgridNotifier)

// WithBaseURL points the client at a different mail send endpoint.
func WithBaseURL(url string) Option {
	return func(s *sendgridNotifier) {
		s.client.BaseURL = url
	}
}

// NewSendGridNotifier creates a SendGrid-backed Notifier.
func NewSendGridNotifier(apiKey, fromAddress, fromName string, opts ...Option) port.Notifier {
	s := &sendgridNotifier{
		client:      sendgrid.NewSendClient(apiKey),
		fromAddress: fromAddress,
		fromName:    fromName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sendgridNotifier) Notify(ctx context.Context, n domain.Notification) error {
	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail("", n.Recipient)
	message := mail.NewSingleEmail(from, n.Subject, to, n.TextBody, n.HTMLBody)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("SendGrid send: %w: %w", domain.ErrNotificationFailed, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %w", response.StatusCode, domain.ErrNotificationFailed)
	}
	return nil
}
