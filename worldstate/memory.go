package worldstate

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a Store held in process memory. State is lost on exit.
type MemoryStore struct {
	mu    sync.RWMutex
	state map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: map[string][]byte{}}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.state[key]
	if !ok {
		return nil, nil
	}
	return cloneBytes(value), nil
}

func (m *MemoryStore) Range(ctx context.Context, startKey, endKey string) ([]KV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := []KV{}
	for key, value := range m.state {
		if key < startKey || (endKey != "" && key >= endKey) {
			continue
		}
		results = append(results, KV{Key: key, Value: cloneBytes(value)})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Key < results[j].Key })
	return results, nil
}

func (m *MemoryStore) Commit(ctx context.Context, writes []Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range writes {
		if w.Delete {
			delete(m.state, w.Key)
			continue
		}
		m.state[w.Key] = cloneBytes(w.Value)
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
