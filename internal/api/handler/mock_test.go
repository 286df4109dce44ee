package handler

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// handlerMockStore implements registry.Store for handler tests.
type handlerMockStore struct {
	mock.Mock
}

func (m *handlerMockStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *handlerMockStore) Persist(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *handlerMockStore) GetChildrenKeys(ctx context.Context, key string) ([]string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
