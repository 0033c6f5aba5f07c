package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicer/internal/domain"
	"invoicer/internal/invoice"
)

// MockInvoiceRenderer is a mock implementation of port.InvoiceRenderer.
type MockInvoiceRenderer struct {
	mock.Mock
}

func (m *MockInvoiceRenderer) Render(ctx context.Context, doc *invoice.Document, cfg domain.TemplateConfig) ([]byte, error) {
	args := m.Called(ctx, doc, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockAssetLoader is a mock implementation of port.AssetLoader.
type MockAssetLoader struct {
	mock.Mock
}

func (m *MockAssetLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockTemplateResolver is a mock implementation of port.TemplateResolver.
type MockTemplateResolver struct {
	mock.Mock
}

func (m *MockTemplateResolver) Resolve(ctx context.Context, shop string) domain.TemplateConfig {
	args := m.Called(ctx, shop)
	return args.Get(0).(domain.TemplateConfig)
}
