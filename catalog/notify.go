package catalog

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"manthokha-backend/metrics"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

type Notifier interface {
	Notify(Notification)
}

type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Recorder keeps the notifications raised while serving one request and
// forwards each to next.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
	next  Notifier
}

func NewRecorder(next Notifier) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Notify(n Notification) {
	if n.Variant == "" {
		n.Variant = VariantDefault
	}
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
	if r.next != nil {
		r.next.Notify(n)
	}
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// LogNotifier records every notification in the log and in metrics.
type LogNotifier struct {
	Log zerolog.Logger
}

func (l LogNotifier) Notify(n Notification) {
	variant := string(n.Variant)
	if variant == "" {
		variant = string(VariantDefault)
	}
	metrics.IncNotification(variant)

	ev := l.Log.Info()
	if n.Variant == VariantDestructive {
		ev = l.Log.Warn()
	}
	ev.Str("title", n.Title).Str("variant", variant).Msg(n.Description)
}

func success(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDefault}
}

func failure(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDestructive}
}

func lower(s string) string { return strings.ToLower(s) }
