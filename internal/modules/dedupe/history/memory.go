package history

import (
	"context"
	"sync"

	"github.com/yungbote/medialib-admin/internal/domain"
)

// MemoryKV keeps history in process. Entries are copied on the way in and
// out.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]domain.HistoryEntry
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: map[string]domain.HistoryEntry{}}
}

func (m *MemoryKV) Get(ctx context.Context, signature string) (*domain.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[signature]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *MemoryKV) Put(ctx context.Context, entry *domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Signature] = *entry
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, signature string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, signature)
	return nil
}

func (m *MemoryKV) List(ctx context.Context) ([]*domain.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.HistoryEntry, 0, len(m.entries))
	for _, e := range m.entries {
		e := e
		out = append(out, &e)
	}
	return out, nil
}

func (m *MemoryKV) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string]domain.HistoryEntry{}
	return nil
}
