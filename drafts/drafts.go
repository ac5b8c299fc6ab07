package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("draft not found")
	ErrLocked   = errors.New("draft is locked by another request")
)

// Draft is a persisted form: which entity it edits and the form snapshot
// as JSON.
type Draft struct {
	ID        string          `json:"id"`
	Entity    string          `json:"entity"`
	Form      json.RawMessage `json:"form"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store keeps drafts between requests. Lock gives one request at a time
// exclusive use of a draft; the returned func releases it.
type Store interface {
	Get(ctx context.Context, id string) (*Draft, error)
	Save(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string) (func(), error)
}
