package drafts

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps drafts in process; used when no Redis is configured.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[string]Draft
	locks  map[string]struct{}
	now    func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		drafts: make(map[string]Draft),
		locks:  make(map[string]struct{}),
		now:    time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.ttl > 0 && m.now().Sub(d.UpdatedAt) > m.ttl {
		delete(m.drafts, id)
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m *MemoryStore) Save(_ context.Context, d *Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.UpdatedAt = m.now().UTC()
	m.drafts[d.ID] = *d
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
	return nil
}

func (m *MemoryStore) Lock(_ context.Context, id string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[id]; held {
		return nil, ErrLocked
	}
	m.locks[id] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.locks, id)
			m.mu.Unlock()
		})
	}, nil
}
