package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"posadmin/internal/query"
	"posadmin/internal/service"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, spec query.Spec) (*query.Page[service.UserListItem], error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.Page[service.UserListItem]), args.Error(1)
}

func (m *MockUserService) ListSelect(ctx context.Context) ([]service.SelectOption, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.SelectOption), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id int) (*service.UserDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserDetail), args.Error(1)
}

func (m *MockUserService) Register(ctx context.Context, req service.UserRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockUserService) Edit(ctx context.Context, id int, req service.UserRequest) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *MockUserService) Remove(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
