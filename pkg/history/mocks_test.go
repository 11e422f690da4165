package history

import (
	"context"
)

// --- Mocks ---

type mockKV struct {
	data map[string]string

	getErr error
	setErr error

	setCalls    int
	deleteCalls int
}

func newMockKV() *mockKV {
	return &mockKV{data: make(map[string]string)}
}

func (m *mockKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *mockKV) Set(_ context.Context, key, value string) error {
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockKV) Delete(_ context.Context, key string) error {
	m.deleteCalls++
	delete(m.data, key)
	return nil
}
