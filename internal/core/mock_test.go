package core

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// ---------- Mock Store ----------

// mockStore implements registry.Store for testing.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Persist(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockStore) GetChildrenKeys(ctx context.Context, key string) ([]string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ---------- Mock SchemaLoader ----------

// mockLoader implements SchemaLoader for testing.
type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) AllSchemaNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockLoader) RuleConfiguration(ctx context.Context, schemaName string) (string, error) {
	args := m.Called(ctx, schemaName)
	return args.String(0), args.Error(1)
}
