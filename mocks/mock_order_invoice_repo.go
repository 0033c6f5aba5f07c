package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicer/internal/domain"
)

// MockOrderInvoiceRepo is a mock implementation of port.OrderInvoiceRepository.
type MockOrderInvoiceRepo struct {
	mock.Mock
}

func (m *MockOrderInvoiceRepo) Enqueue(ctx context.Context, shop, orderName string, payload json.RawMessage) (*domain.OrderInvoice, error) {
	args := m.Called(ctx, shop, orderName, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderInvoice), args.Error(1)
}

func (m *MockOrderInvoiceRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.OrderInvoice, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderInvoice), args.Error(1)
}

func (m *MockOrderInvoiceRepo) MarkGenerated(ctx context.Context, shop, orderName, s3Key string, at time.Time, auditWarnings int) error {
	args := m.Called(ctx, shop, orderName, s3Key, at, auditWarnings)
	return args.Error(0)
}

func (m *MockOrderInvoiceRepo) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int) error {
	args := m.Called(ctx, id, lastError, maxAttempts)
	return args.Error(0)
}

func (m *MockOrderInvoiceRepo) GetByOrder(ctx context.Context, shop, orderName string) (*domain.OrderInvoice, error) {
	args := m.Called(ctx, shop, orderName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderInvoice), args.Error(1)
}

func (m *MockOrderInvoiceRepo) ListByShop(ctx context.Context, shop string, offset, limit int) ([]domain.OrderInvoice, int, error) {
	args := m.Called(ctx, shop, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OrderInvoice), args.Int(1), args.Error(2)
}
