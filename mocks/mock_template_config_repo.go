package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicer/internal/domain"
)

// MockTemplateConfigRepo is a mock implementation of port.TemplateConfigRepository.
type MockTemplateConfigRepo struct {
	mock.Mock
}

func (m *MockTemplateConfigRepo) GetShop(ctx context.Context, shop string) (*domain.Shop, error) {
	args := m.Called(ctx, shop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

func (m *MockTemplateConfigRepo) GetShopTemplate(ctx context.Context, shop, templateID string) (*domain.ShopTemplate, error) {
	args := m.Called(ctx, shop, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShopTemplate), args.Error(1)
}

func (m *MockTemplateConfigRepo) GetTemplate(ctx context.Context, templateID string) (*domain.Template, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateConfigRepo) UpsertShopTemplate(ctx context.Context, st *domain.ShopTemplate) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}
