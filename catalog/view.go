package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"manthokha-backend/services"
)

// Lister is the read side of a Repository.
type Lister[T any] interface {
	List(ctx context.Context, opts services.ListOptions) ([]T, error)
}

// View is an in-memory copy of one scoped store listing. It is only ever
// replaced by a full re-fetch; a failed re-fetch leaves the old items in
// place and nothing retries on its own.
type View[T any] struct {
	name string
	repo Lister[T]
	opts services.ListOptions
	log  zerolog.Logger

	mu          sync.RWMutex
	items       []T
	loaded      bool
	lastErr     error
	refreshedAt time.Time
	// started numbers each refresh; applied is the newest one whose outcome
	// the view reflects.
	started uint64
	applied uint64
}

type ViewStatus struct {
	Name        string    `json:"name"`
	Loaded      bool      `json:"loaded"`
	Stale       bool      `json:"stale"`
	Count       int       `json:"count"`
	LastError   string    `json:"last_error,omitempty"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

func NewView[T any](name string, repo Lister[T], opts services.ListOptions, log zerolog.Logger) *View[T] {
	return &View[T]{name: name, repo: repo, opts: opts, log: log}
}

// Refresh re-reads the whole listing. When refreshes overlap, a result that
// finishes after a later-started one has landed is dropped.
func (v *View[T]) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.started++
	gen := v.started
	v.mu.Unlock()

	items, err := v.repo.List(ctx, v.opts)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen < v.applied {
		v.log.Debug().Str("view", v.name).Uint64("generation", gen).Msg("dropping superseded catalog refresh")
		return err
	}
	v.applied = gen
	if err != nil {
		v.lastErr = err
		v.log.Warn().Err(err).Str("view", v.name).Int("kept", len(v.items)).Msg("catalog refresh failed, keeping previous list")
		return err
	}
	v.items = items
	v.loaded = true
	v.lastErr = nil
	v.refreshedAt = time.Now()
	return nil
}

// Ensure loads the view once if it has never been loaded.
func (v *View[T]) Ensure(ctx context.Context) error {
	v.mu.RLock()
	loaded := v.loaded
	v.mu.RUnlock()
	if loaded {
		return nil
	}
	return v.Refresh(ctx)
}

// Items returns a copy of the current list.
func (v *View[T]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}

func (v *View[T]) Status() ViewStatus {
	v.mu.RLock()
	defer v.mu.RUnlock()
	st := ViewStatus{
		Name:        v.name,
		Loaded:      v.loaded,
		Stale:       v.lastErr != nil,
		Count:       len(v.items),
		RefreshedAt: v.refreshedAt,
	}
	if v.lastErr != nil {
		st.LastError = v.lastErr.Error()
	}
	return st
}
