package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicer/internal/domain"
	"invoicer/internal/templateconfig"
)

// MockTemplateService is a mock implementation of handler.TemplateService.
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) Lookup(ctx context.Context, shop string) domain.RawTemplateConfig {
	args := m.Called(ctx, shop)
	return args.Get(0).(domain.RawTemplateConfig)
}

func (m *MockTemplateService) Update(ctx context.Context, shop string, in templateconfig.UpdateInput) (*domain.ShopTemplate, error) {
	args := m.Called(ctx, shop, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShopTemplate), args.Error(1)
}
