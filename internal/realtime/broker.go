package realtime

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// ClientEvent is what a connected SSE client receives.
type ClientEvent struct {
	Change
	// UserID scopes delivery; uuid.Nil means every connected client.
	UserID uuid.UUID `json:"-"`
}

// Broker fans bus changes out to connected SSE clients, keyed by user.
type Broker struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[chan ClientEvent]bool
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{clients: make(map[uuid.UUID]map[chan ClientEvent]bool)}
}

// Register adds a client channel for a user.
func (b *Broker) Register(userID uuid.UUID, ch chan ClientEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.clients[userID]; !ok {
		b.clients[userID] = make(map[chan ClientEvent]bool)
	}
	b.clients[userID][ch] = true
}

// Unregister removes and closes a client channel for a user.
func (b *Broker) Unregister(userID uuid.UUID, ch chan ClientEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if userClients, ok := b.clients[userID]; ok {
		if userClients[ch] {
			delete(userClients, ch)
			close(ch)
		}
		if len(userClients) == 0 {
			delete(b.clients, userID)
		}
	}
}

// Send delivers an event to one user's clients, or to everyone when the
// event's UserID is uuid.Nil. Blocked clients are skipped.
func (b *Broker) Send(event ClientEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	deliver := func(set map[chan ClientEvent]bool) {
		for ch := range set {
			select {
			case ch <- event:
			default:
				log.Printf("realtime: client channel blocked, dropping %s on %s", event.Event, event.Table)
			}
		}
	}

	if event.UserID == uuid.Nil {
		for _, set := range b.clients {
			deliver(set)
		}
		return
	}
	if set, ok := b.clients[event.UserID]; ok {
		deliver(set)
	}
}

// ClientCount returns the number of connected channels for a user.
func (b *Broker) ClientCount(userID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[userID])
}
