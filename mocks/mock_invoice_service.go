package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicer/internal/domain"
	"invoicer/internal/service"
	"invoicer/internal/shopify"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Process(ctx context.Context, wh *shopify.Webhook) (*domain.InvoiceResult, error) {
	args := m.Called(ctx, wh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceResult), args.Error(1)
}

func (m *MockInvoiceService) Preview(ctx context.Context, wh *shopify.Webhook) (*service.PreviewResult, error) {
	args := m.Called(ctx, wh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PreviewResult), args.Error(1)
}

func (m *MockInvoiceService) Enqueue(ctx context.Context, wh *shopify.Webhook) (*domain.OrderInvoice, error) {
	args := m.Called(ctx, wh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderInvoice), args.Error(1)
}

func (m *MockInvoiceService) ProcessQueued(ctx context.Context, rec *domain.OrderInvoice, maxAttempts int) {
	m.Called(ctx, rec, maxAttempts)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, shop, orderName string) (*service.InvoiceRecord, error) {
	args := m.Called(ctx, shop, orderName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvoiceRecord), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, shop string, offset, limit int) ([]domain.OrderInvoice, int, error) {
	args := m.Called(ctx, shop, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OrderInvoice), args.Int(1), args.Error(2)
}
