package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"posadmin/internal/query"
	"posadmin/internal/service"
)

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) List(ctx context.Context, spec query.Spec) (*query.Page[service.SaleListItem], error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.Page[service.SaleListItem]), args.Error(1)
}

func (m *MockSaleService) GetByID(ctx context.Context, id int) (*service.SaleDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SaleDetailResponse), args.Error(1)
}

func (m *MockSaleService) Register(ctx context.Context, req service.SaleRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockSaleService) Cancel(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
