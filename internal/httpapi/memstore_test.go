package httpapi_test

import (
	"context"
	"sync"
	"time"

	"users-api/internal/store"
)

// memStore is an in-memory stand-in for the DynamoDB adapter, good enough
// to exercise full request flows.
type memStore struct {
	mu    sync.Mutex
	items map[string]*store.User
}

func newMemStore() *memStore {
	return &memStore{items: map[string]*store.User{}}
}

func (m *memStore) GetByID(_ context.Context, id string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.items[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (m *memStore) Put(_ context.Context, user *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *user
	m.items[user.ID] = &cp
	return nil
}

func (m *memStore) Update(_ context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.items[id]
	if !ok {
		return store.ErrRecordNotFound
	}

	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "age":
			age := v.(int)
			u.Age = &age
		case "passwordHash":
			u.PasswordHash = v.(string)
		case "resetTokenHash":
			if v == nil {
				u.ResetTokenHash = ""
			} else {
				u.ResetTokenHash = v.(string)
			}
		case "resetTokenExpiry":
			if v == nil {
				u.ResetTokenExpiry = nil
			} else {
				expiry := time.Unix(v.(int64), 0)
				u.ResetTokenExpiry = &expiry
			}
		case "updatedAt":
			u.UpdatedAt = time.Unix(v.(int64), 0).UTC()
		}
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, id)
	return nil
}

func (m *memStore) ScanAll(_ context.Context) ([]*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*store.User, 0, len(m.items))
	for _, u := range m.items {
		cp := *u
		cp.PasswordHash = ""
		cp.ResetTokenHash = ""
		cp.ResetTokenExpiry = nil
		result = append(result, &cp)
	}
	return result, nil
}
