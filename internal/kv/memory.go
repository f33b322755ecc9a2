package kv

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store. It is the default for tests and for the
// "memory" backend. A positive quota caps the total bytes of keys plus values
// held at once, mimicking a browser's storage limit.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	quota  int
	usedBy int
}

// NewMemory returns an empty Memory store. quota <= 0 means unlimited.
func NewMemory(quota int) *Memory {
	return &Memory{data: make(map[string]string), quota: quota}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.usedBy
	if old, ok := m.data[key]; ok {
		used -= len(key) + len(old)
	}
	used += len(key) + len(value)
	if m.quota > 0 && used > m.quota {
		return fmt.Errorf("kv.Memory.Set %q: %w", key, ErrQuotaExceeded)
	}

	m.data[key] = value
	m.usedBy = used
	return nil
}
