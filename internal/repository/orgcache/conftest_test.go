package orgcache

import (
	"context"
	"time"
)

// mockDirectory implements the inner directory for tests.
type mockDirectory struct {
	namesFn func(ctx context.Context, ids []int64) (map[int64]string, error)
	calls   [][]int64
}

func (m *mockDirectory) OrganizationNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	m.calls = append(m.calls, ids)
	if m.namesFn != nil {
		return m.namesFn(ctx, ids)
	}
	return map[int64]string{}, nil
}

// mockStore implements the consumer cache interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	sets  map[string]string
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.sets == nil {
		m.sets = map[string]string{}
	}
	m.sets[key] = string(value)
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}
