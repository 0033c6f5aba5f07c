package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"invoicer/internal/domain"
	"invoicer/internal/port"
	s3storage "invoicer/internal/storage/s3"
)

// API is the subset of the SES v2 client used here.
type API interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client      API
	fromAddress string
	fromName    string
}

// NewSESNotifier creates an SES-backed Notifier using the default AWS credential chain.
func NewSESNotifier(ctx context.Context, region, fromAddress, fromName string) (port.Notifier, error) {
	cfg, err := s3storage.LoadAWSConfig(ctx, region, "", "")
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewWithClient(sesv2.NewFromConfig(cfg), fromAddress, fromName), nil
}

// NewWithClient wraps an existing SES client.
func NewWithClient(client API, fromAddress, fromName string) port.Notifier {
	return &sesNotifier{client: client, fromAddress: fromAddress, fromName: fromName}
}

func (s *sesNotifier) Notify(ctx context.Context, n domain.Notification) error {
	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{n.Recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(n.Subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(n.HTMLBody)},
					Text: &types.Content{Data: aws.String(n.TextBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w: %w", domain.ErrNotificationFailed, err)
	}
	return nil
}
