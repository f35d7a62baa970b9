package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"posadmin/internal/model"
	"posadmin/internal/storage"
)

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Save(ctx context.Context, container string, up storage.Upload) (model.AssetRef, error) {
	args := m.Called(ctx, container, up)
	return args.Get(0).(model.AssetRef), args.Error(1)
}

func (m *MockAssetStore) Replace(ctx context.Context, container string, up storage.Upload, prev model.AssetRef) (model.AssetRef, error) {
	args := m.Called(ctx, container, up, prev)
	return args.Get(0).(model.AssetRef), args.Error(1)
}

func (m *MockAssetStore) Remove(ctx context.Context, ref model.AssetRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
