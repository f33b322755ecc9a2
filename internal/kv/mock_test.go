package kv_test

import (
	"context"

	"github.com/pkordes/triplog/internal/kv"
)

// mockStore is a hand-written test double for kv.Store.
// Set only the function fields your test needs; calls are counted.
type mockStore struct {
	get      func(ctx context.Context, key string) (string, bool, error)
	set      func(ctx context.Context, key, value string) error
	getCalls int
	setCalls int
}

func (m *mockStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.getCalls++
	return m.get(ctx, key)
}

func (m *mockStore) Set(ctx context.Context, key, value string) error {
	m.setCalls++
	return m.set(ctx, key, value)
}

// compile-time check: mockStore must satisfy kv.Store.
var _ kv.Store = (*mockStore)(nil)
