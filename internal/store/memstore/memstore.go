package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Makepad-fr/planner/internal/model"
	"github.com/Makepad-fr/planner/internal/store"
)

// MemStore keeps items in process memory. Handy for tests and demos.
type MemStore struct {
	mu    sync.RWMutex
	items []model.Item
}

// New returns an empty MemStore, optionally seeded.
func New(seed ...model.Item) *MemStore {
	return &MemStore{items: slices.Clone(seed)}
}

func (m *MemStore) List(_ context.Context) ([]model.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemStore) Append(_ context.Context, name string) (model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if indexOf(m.items, name) >= 0 {
		return model.Item{}, store.ErrExists
	}
	it := model.Item{ID: uuid.NewString(), Name: name}
	m.items = append(m.items, it)
	return it, nil
}

func (m *MemStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.items, name)
	if i < 0 {
		return store.ErrNotFound
	}
	m.items = slices.Delete(m.items, i, i+1)
	return nil
}

func (m *MemStore) Close() error { return nil }

func indexOf(items []model.Item, name string) int {
	return slices.IndexFunc(items, func(it model.Item) bool { return it.Name == name })
}

var _ store.Store = (*MemStore)(nil)
