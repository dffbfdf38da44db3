package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/languages"
)

// Action names what a backfill did to one item.
type Action string

const (
	ActionTranslate       Action = "translate"
	ActionTranslateFailed Action = "translate_failed"
)

// DefaultAuditCapacity bounds the in-memory history kept by the container.
const DefaultAuditCapacity = 1000

// AuditEvent is the backfill result for one content item.
type AuditEvent struct {
	ContentType content.Type     `json:"content_type"`
	ContentID   uuid.UUID        `json:"content_id"`
	Action      Action           `json:"action"`
	Translated  []languages.Code `json:"translated,omitempty"`
	Skipped     []languages.Code `json:"skipped,omitempty"`
	Failed      int              `json:"failed,omitempty"`
	Error       string           `json:"error,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
	List(ctx context.Context) ([]AuditEvent, error)
}

// InMemoryAuditRecorder keeps the most recent events up to its capacity.
// A capacity of zero or less keeps everything.
type InMemoryAuditRecorder struct {
	mu       sync.Mutex
	capacity int
	events   []AuditEvent
}

func NewInMemoryAuditRecorder(capacity int) *InMemoryAuditRecorder {
	return &InMemoryAuditRecorder{capacity: capacity}
}

func (r *InMemoryAuditRecorder) Record(_ context.Context, event AuditEvent) error {
	event.Translated = append([]languages.Code(nil), event.Translated...)
	event.Skipped = append([]languages.Code(nil), event.Skipped...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if r.capacity > 0 && len(r.events) > r.capacity {
		r.events = append([]AuditEvent(nil), r.events[len(r.events)-r.capacity:]...)
	}
	return nil
}

func (r *InMemoryAuditRecorder) List(context.Context) ([]AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]AuditEvent(nil), r.events...), nil
}

// Events returns a snapshot of recorded events.
func (r *InMemoryAuditRecorder) Events() []AuditEvent {
	events, _ := r.List(context.Background())
	return events
}

// ForItem filters the history down to one content item, oldest first.
func (r *InMemoryAuditRecorder) ForItem(contentType content.Type, id uuid.UUID) []AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []AuditEvent
	for _, event := range r.events {
		if event.ContentType == contentType && event.ContentID == id {
			out = append(out, event)
		}
	}
	return out
}
