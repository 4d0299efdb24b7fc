package store

import (
	"context"
	"sort"
	"sync"

	"assets-manager/internal/asset"
)

// MemoryStore keeps records in process. Ids are assigned monotonically and
// never reused.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]asset.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[int64]asset.Record{}}
}

func (m *MemoryStore) List(_ context.Context, f Filter) ([]asset.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]asset.Record, 0, len(m.records))
	for _, r := range m.records {
		if f.matches(r) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (asset.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok {
		return asset.Record{}, ErrNotFound
	}
	return r.Clone(), nil
}

func (m *MemoryStore) Create(_ context.Context, r asset.Record) (asset.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.serialTaken(r.SerialNumber, 0) {
		return asset.Record{}, ErrDuplicateSerial
	}
	m.nextID++
	stored := r.WithID(m.nextID)
	m.records[m.nextID] = stored
	return stored.Clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, id int64, r asset.Record) (asset.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return asset.Record{}, ErrNotFound
	}
	if m.serialTaken(r.SerialNumber, id) {
		return asset.Record{}, ErrDuplicateSerial
	}
	stored := r.WithID(id)
	m.records[id] = stored
	return stored.Clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// serialTaken must be called with the lock held.
func (m *MemoryStore) serialTaken(serial string, except int64) bool {
	for id, r := range m.records {
		if id != except && r.SerialNumber == serial {
			return true
		}
	}
	return false
}
