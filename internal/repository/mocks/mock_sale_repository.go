package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"posadmin/internal/model"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, s *model.Sale) (*model.Sale, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id int) (*model.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleRepository) ListAll(ctx context.Context) ([]model.Sale, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Sale), args.Error(1)
}

func (m *MockSaleRepository) UpdateState(ctx context.Context, id, state int) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}
