package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"manthokha-backend/models"
	"manthokha-backend/services"
)

type identified interface {
	SetID(string)
}

// memRepo is an in-memory Repository that counts store calls.
type memRepo[T any] struct {
	mu    sync.Mutex
	order []string
	rows  map[string]T
	idOf  func(T) string

	listErr   error
	insertErr error
	updateErr error
	deleteErr error

	inserts, updates, deletes, lists int
}

func newMemRepo[T any](idOf func(T) string) *memRepo[T] {
	return &memRepo[T]{rows: map[string]T{}, idOf: idOf}
}

func (r *memRepo[T]) List(_ context.Context, _ services.ListOptions) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rows[id])
	}
	return out, nil
}

func (r *memRepo[T]) Get(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrNotFound, id)
	}
	return &rec, nil
}

func (r *memRepo[T]) Insert(_ context.Context, rec *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.insertErr != nil {
		return r.insertErr
	}
	id := r.idOf(*rec)
	if id == "" {
		id = models.NewID()
		any(rec).(identified).SetID(id)
	}
	r.rows[id] = *rec
	r.order = append(r.order, id)
	return nil
}

func (r *memRepo[T]) Update(_ context.Context, id string, rec *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("%w: %s", services.ErrNotFound, id)
	}
	any(rec).(identified).SetID(id)
	r.rows[id] = *rec
	return nil
}

func (r *memRepo[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("%w: %s", services.ErrNotFound, id)
	}
	delete(r.rows, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memRepo[T]) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inserts + r.updates + r.deletes
}

func hotelRepo() *memRepo[models.Hotel] {
	return newMemRepo(func(h models.Hotel) string { return h.ID })
}

func roomRepo() *memRepo[models.Room] {
	return newMemRepo(func(r models.Room) string { return r.ID })
}

func bookingRepo() *memRepo[models.Booking] {
	return newMemRepo(func(b models.Booking) string { return b.ID })
}

// mockRepo is a testify spy for asserting that no store call happens.
type mockRepo[T any] struct {
	mock.Mock
}

func (m *mockRepo[T]) List(ctx context.Context, opts services.ListOptions) ([]T, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]T), args.Error(1)
}

func (m *mockRepo[T]) Get(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockRepo[T]) Insert(ctx context.Context, rec *T) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockRepo[T]) Update(ctx context.Context, id string, rec *T) error {
	return m.Called(ctx, id, rec).Error(0)
}

func (m *mockRepo[T]) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type countingRefresher struct {
	mu sync.Mutex
	n  int
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	return nil
}

func (c *countingRefresher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
