package users_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"users-api/internal/store"
)

// MockStore implements users.Store for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*store.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*store.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*store.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) Put(ctx context.Context, user *store.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStore) Update(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) ScanAll(ctx context.Context) ([]*store.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]*store.User), args.Error(1)
	}
	return nil, args.Error(1)
}
