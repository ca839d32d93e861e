// Package realtime provides a best-effort in-process change feed. Writers
// publish row-change events after commit; the events endpoint streams them
// to connected clients so views refresh without polling. Delivery is not
// guaranteed: a slow subscriber drops events rather than blocking a sale.
package realtime

import (
	"sync"
	"time"
)

// Event types published by the application.
const (
	EventInventoryUpdated = "inventory_updated"
	EventSaleRecorded     = "sale_recorded"
	EventOrderUpdated     = "order_updated"
	EventReturnUpdated    = "return_updated"
)

// Event is a single change notification.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

// Hub fans events out to subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called when the subscriber goes away; it closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish sends an event to every subscriber without blocking. Subscribers
// whose buffers are full miss the event.
func (h *Hub) Publish(eventType string, payload interface{}) {
	if h == nil {
		return
	}

	ev := Event{Type: eventType, Payload: payload, At: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
