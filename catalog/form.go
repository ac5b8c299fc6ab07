package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"manthokha-backend/services"
)

// Repository is the narrow store surface one entity exposes to its form and views.
type Repository[T any] interface {
	List(ctx context.Context, opts services.ListOptions) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, rec *T) error
	Update(ctx context.Context, id string, rec *T) error
	Delete(ctx context.Context, id string) error
}

// Refresher is anything that re-reads the store after a mutation.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type Phase int

const (
	Browsing Phase = iota
	Editing
	Submitting
	Failed
)

func (p Phase) String() string {
	switch p {
	case Browsing:
		return "browsing"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Failed:
		return "error"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "browsing":
		*p = Browsing
	case "editing":
		*p = Editing
	case "submitting":
		*p = Submitting
	case "error":
		*p = Failed
	default:
		return fmt.Errorf("unknown phase %q", string(b))
	}
	return nil
}

// State is the form's position in Browsing -> Editing -> Submitting, with
// Failed holding the last store message while the working copy stays open.
type State struct {
	Phase    Phase  `json:"phase"`
	TargetID string `json:"target_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (s State) open() bool {
	return s.Phase == Editing || s.Phase == Failed
}

// Schema describes one entity to the generic form.
type Schema[T any] struct {
	Entity   string
	New      func() T
	Clone    func(T) T
	Label    func(T) string
	SetField func(rec *T, name, value string) error
	// Lists exposes the list-valued fields (images, features) by name.
	Lists     map[string]func(rec *T) *[]string
	Normalize func(rec *T)
	Validate  func(rec T) *ValidationError
	// Rejected turns a store refusal the user can fix, such as a clashing
	// stay, into a validation failure that leaves the form open.
	Rejected func(err error) *ValidationError
}

// Snapshot is a serialisable copy of a form, used to persist drafts.
type Snapshot[T any] struct {
	State   State `json:"state"`
	Working T     `json:"working"`
}

// Form is one create/edit form for an entity. At most one submit or delete
// runs at a time.
type Form[T any] struct {
	schema     Schema[T]
	repo       Repository[T]
	notifier   Notifier
	refreshers []Refresher

	mu       sync.Mutex
	state    State
	working  T
	inFlight bool
}

func NewForm[T any](schema Schema[T], repo Repository[T], notifier Notifier, refreshers ...Refresher) *Form[T] {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Form[T]{schema: schema, repo: repo, notifier: notifier, refreshers: refreshers}
}

func (f *Form[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Working returns a copy of the working copy.
func (f *Form[T]) Working() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schema.Clone(f.working)
}

// Create opens the form on an empty record.
func (f *Form[T]) Create() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrBusy
	}
	f.working = f.schema.New()
	f.state = State{Phase: Editing}
	return nil
}

// Edit opens the form on a copy of an existing record.
func (f *Form[T]) Edit(id string, rec T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrBusy
	}
	f.working = f.schema.Clone(rec)
	f.state = State{Phase: Editing, TargetID: id}
	return nil
}

func (f *Form[T]) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrBusy
	}
	var zero T
	f.working = zero
	f.state = State{Phase: Browsing}
	return nil
}

// Replace swaps the whole working copy, e.g. for a full-field update body.
func (f *Form[T]) Replace(rec T) error {
	return f.mutate(func(w *T) error {
		*w = f.schema.Clone(rec)
		return nil
	})
}

func (f *Form[T]) SetField(name, value string) error {
	return f.mutate(func(w *T) error {
		return f.schema.SetField(w, name, value)
	})
}

// AddListItem appends a trimmed value to a list field. Blank input is
// ignored and reported as added == false.
func (f *Form[T]) AddListItem(field, value string) (added bool, err error) {
	err = f.mutate(func(w *T) error {
		list, err := f.list(w, field)
		if err != nil {
			return err
		}
		v := strings.TrimSpace(value)
		if v == "" {
			return nil
		}
		*list = append(*list, v)
		added = true
		return nil
	})
	return added, err
}

// RemoveListItem drops the item at index. An index out of range is ignored.
func (f *Form[T]) RemoveListItem(field string, index int) (removed bool, err error) {
	err = f.mutate(func(w *T) error {
		list, err := f.list(w, field)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(*list) {
			return nil
		}
		next := make([]string, 0, len(*list)-1)
		next = append(next, (*list)[:index]...)
		next = append(next, (*list)[index+1:]...)
		*list = next
		removed = true
		return nil
	})
	return removed, err
}

// Validate checks the working copy without touching the store.
func (f *Form[T]) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.state.open() {
		return ErrNotEditing
	}
	rec := f.schema.Clone(f.working)
	if f.schema.Normalize != nil {
		f.schema.Normalize(&rec)
	}
	if verr := f.schema.Validate(rec); verr != nil {
		return verr
	}
	return nil
}

// Submit validates the working copy and inserts it, or updates the edit
// target with the full field set. On success the views are refreshed and the
// form returns to Browsing; on a store failure it stays open in Failed.
func (f *Form[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return zero, ErrBusy
	}
	if !f.state.open() {
		f.mu.Unlock()
		return zero, ErrNotEditing
	}
	rec := f.schema.Clone(f.working)
	if f.schema.Normalize != nil {
		f.schema.Normalize(&rec)
	}
	if verr := f.schema.Validate(rec); verr != nil {
		f.mu.Unlock()
		f.notifier.Notify(failure(verr.Title, verr.Message))
		return zero, verr
	}
	target := f.state.TargetID
	prev := f.state
	f.inFlight = true
	f.state = State{Phase: Submitting, TargetID: target}
	f.mu.Unlock()

	op := "insert"
	var err error
	if target != "" {
		op = "update"
		err = f.repo.Update(ctx, target, &rec)
	} else {
		err = f.repo.Insert(ctx, &rec)
	}
	if err != nil {
		if f.schema.Rejected != nil {
			if verr := f.schema.Rejected(err); verr != nil {
				f.mu.Lock()
				f.inFlight = false
				f.state = prev
				f.mu.Unlock()
				f.notifier.Notify(failure(verr.Title, verr.Message))
				return zero, verr
			}
		}
		return zero, f.storeFailed(op, err)
	}

	f.mu.Lock()
	f.inFlight = false
	f.working = zero
	f.state = State{Phase: Browsing}
	f.mu.Unlock()

	f.refresh(ctx)

	title, verb := "Created", "created"
	if target != "" {
		title, verb = "Updated", "updated"
	}
	f.notifier.Notify(success(
		f.schema.Entity+" "+title,
		fmt.Sprintf("%s %q has been %s successfully.", f.schema.Entity, f.label(rec), verb),
	))
	return rec, nil
}

// Delete removes id once confirm approves it. Without approval no store
// call is made. The view only changes through the refresh that follows a
// successful delete.
func (f *Form[T]) Delete(ctx context.Context, id string, confirm func(id string) bool) error {
	if confirm == nil || !confirm(id) {
		return ErrNotConfirmed
	}

	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrBusy
	}
	prev := f.state
	f.inFlight = true
	f.state = State{Phase: Submitting, TargetID: prev.TargetID}
	f.mu.Unlock()

	err := f.repo.Delete(ctx, id)

	f.mu.Lock()
	f.inFlight = false
	f.state = prev
	if err == nil && prev.TargetID == id {
		var zero T
		f.working = zero
		f.state = State{Phase: Browsing}
	}
	f.mu.Unlock()

	if err != nil {
		serr := &StoreError{Entity: f.schema.Entity, Op: "delete", Err: err}
		f.notifier.Notify(failure("Error Deleting "+f.schema.Entity, serr.Message()))
		return serr
	}

	f.refresh(ctx)
	f.notifier.Notify(success(
		f.schema.Entity+" Deleted",
		fmt.Sprintf("%s has been deleted successfully.", f.schema.Entity),
	))
	return nil
}

func (f *Form[T]) Snapshot() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot[T]{State: f.state, Working: f.schema.Clone(f.working)}
}

// Restore reloads a persisted snapshot. A snapshot taken mid-flight comes
// back as Editing since the request that owned it is gone.
func (f *Form[T]) Restore(s Snapshot[T]) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrBusy
	}
	f.working = f.schema.Clone(s.Working)
	f.state = s.State
	if f.state.Phase == Submitting {
		f.state.Phase = Editing
	}
	return nil
}

func (f *Form[T]) mutate(fn func(w *T) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrBusy
	}
	if !f.state.open() {
		return ErrNotEditing
	}
	if err := fn(&f.working); err != nil {
		return err
	}
	if f.state.Phase == Failed {
		f.state = State{Phase: Editing, TargetID: f.state.TargetID}
	}
	return nil
}

func (f *Form[T]) list(w *T, field string) (*[]string, error) {
	get, ok := f.schema.Lists[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return get(w), nil
}

func (f *Form[T]) storeFailed(op string, err error) error {
	serr := &StoreError{Entity: f.schema.Entity, Op: op, Err: err}

	f.mu.Lock()
	f.inFlight = false
	f.state.Phase = Failed
	f.state.Message = serr.Message()
	f.mu.Unlock()

	f.notifier.Notify(failure("Error Saving "+f.schema.Entity, serr.Message()))
	return serr
}

func (f *Form[T]) refresh(ctx context.Context) {
	for _, r := range f.refreshers {
		_ = r.Refresh(ctx)
	}
}

func (f *Form[T]) label(rec T) string {
	if f.schema.Label == nil {
		return ""
	}
	return f.schema.Label(rec)
}
