package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event types mirror row-level database changes.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Change is a row-level change notification for one table.
type Change struct {
	Event string          `json:"event"`
	Table string          `json:"table"`
	RowID uuid.UUID       `json:"row_id"`
	Row   json.RawMessage `json:"row,omitempty"`
}

// Bus is the in-process change bus. Repositories publish a Change after every
// committed write; read models and SSE clients subscribe per table. Delivery
// is best-effort: a subscriber whose channel is full misses the event, which
// is safe because every consumer refreshes from the store rather than
// patching from the payload.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[chan Change]bool
}

// NewBus creates an empty change bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[chan Change]bool)}
}

// Subscribe registers a buffered channel for changes on the given tables.
// The returned cancel func unregisters and closes the channel.
func (b *Bus) Subscribe(tables ...string) (<-chan Change, func()) {
	ch := make(chan Change, 64)

	b.mu.Lock()
	for _, t := range tables {
		if _, ok := b.subs[t]; !ok {
			b.subs[t] = make(map[chan Change]bool)
		}
		b.subs[t][ch] = true
	}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		for _, t := range tables {
			if set, ok := b.subs[t]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(b.subs, t)
				}
			}
		}
		b.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

// Publish delivers a change to every subscriber of its table.
func (b *Bus) Publish(change Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[change.Table] {
		select {
		case ch <- change:
		default:
			// subscriber is behind; it will catch up on its next refresh
		}
	}
}

// PublishRow marshals the row and publishes a change for it. Marshal failures
// publish the change without a payload; consumers only key off table+event.
func (b *Bus) PublishRow(event, table string, rowID uuid.UUID, row any) {
	var raw json.RawMessage
	if row != nil {
		if data, err := json.Marshal(row); err == nil {
			raw = data
		}
	}
	b.Publish(Change{Event: event, Table: table, RowID: rowID, Row: raw})
}
