// Package sqs publishes invoice notifications to a queue for downstream
// fan-out (email relays, chat bots).
package sqs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"invoicer/internal/domain"
	"invoicer/internal/port"
	s3storage "invoicer/internal/storage/s3"
)

// API is the subset of the SQS client used here.
type API interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type sqsNotifier struct {
	client   API
	queueURL string
}

// NewSQSNotifier creates a queue-backed Notifier.
func NewSQSNotifier(ctx context.Context, region, queueURL string) (port.Notifier, error) {
	if queueURL == "" {
		return nil, fmt.Errorf("sqs notifier: queue url is required")
	}
	cfg, err := s3storage.LoadAWSConfig(ctx, region, "", "")
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SQS: %w", err)
	}
	return NewWithClient(sqs.NewFromConfig(cfg), queueURL), nil
}

// NewWithClient wraps an existing SQS client.
func NewWithClient(client API, queueURL string) port.Notifier {
	return &sqsNotifier{client: client, queueURL: queueURL}
}

func (s *sqsNotifier) Notify(ctx context.Context, n domain.Notification) error {
	attrs := map[string]types.MessageAttributeValue{}
	for name, value := range map[string]string{
		"orderNumber":    n.OrderNumber,
		"invoiceUrl":     n.InvoiceURL,
		"recipientEmail": n.Recipient,
		"subject":        n.Subject,
	} {
		if value == "" {
			continue
		}
		attrs[name] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}

	_, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queueURL),
		MessageBody:       aws.String(n.TextBody),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("SQS SendMessage: %w: %w", domain.ErrNotificationFailed, err)
	}
	return nil
}
