package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process ObjectStore for tests and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]memObject
	created bool

	// Now is the clock used for creation dates; tests may replace it.
	Now func() time.Time

	// FailGet makes Get fail for the named objects, to exercise per-object
	// fault isolation during corpus reconstruction.
	FailGet map[string]bool
}

type memObject struct {
	data      []byte
	createdAt time.Time
}

// NewMemoryStore creates an empty in-memory store with its container
// already present.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memObject),
		created: true,
		Now:     time.Now,
	}
}

func (m *MemoryStore) List(ctx context.Context) ([]ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ObjectInfo, 0, len(m.objects))
	for name, obj := range m.objects {
		out = append(out, ObjectInfo{Name: name, CreatedAt: obj.createdAt, Size: int64(len(obj.data))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet[name] {
		return nil, fmt.Errorf("object %s unreadable", name)
	}
	obj, ok := m.objects[name]
	if !ok {
		return nil, fmt.Errorf("object %s not found", name)
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

func (m *MemoryStore) Put(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	createdAt := m.Now()
	if prev, ok := m.objects[name]; ok {
		// Overwrite keeps the original creation date, matching blob
		// storage semantics.
		createdAt = prev.createdAt
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[name] = memObject{data: stored, createdAt: createdAt}
	return nil
}

func (m *MemoryStore) Exists(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created, nil
}

func (m *MemoryStore) Create(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = true
	return nil
}
