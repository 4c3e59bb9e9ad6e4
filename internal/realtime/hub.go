// Package realtime fans partner notifications out to connected clients.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"partner-portal/models"
)

// Publisher delivers a freshly inserted notification to its partner's subscribers.
type Publisher interface {
	Publish(ctx context.Context, n models.Notification) error
}

type subscriber struct {
	ch chan models.Notification
}

// Hub keeps in-process subscriptions keyed by partner id.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[string]map[*subscriber]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a subscription for partnerID. The returned cancel func
// removes it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(partnerID string) (<-chan models.Notification, func()) {
	sub := &subscriber{ch: make(chan models.Notification, h.buffer)}

	h.mu.Lock()
	if h.subs[partnerID] == nil {
		h.subs[partnerID] = make(map[*subscriber]struct{})
	}
	h.subs[partnerID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			delete(h.subs[partnerID], sub)
			if len(h.subs[partnerID]) == 0 {
				delete(h.subs, partnerID)
			}
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Deliver hands n to every subscriber of its partner and returns how many received it.
// A subscriber whose buffer is full misses the notification rather than blocking others.
func (h *Hub) Deliver(n models.Notification) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.subs[n.PartnerID] {
		select {
		case sub.ch <- n:
			delivered++
		default:
			slog.Warn("notification dropped for slow subscriber", "partnerID", n.PartnerID, "notificationID", n.ID)
		}
	}
	return delivered
}

// Publish satisfies Publisher for single instance deployments.
func (h *Hub) Publish(_ context.Context, n models.Notification) error {
	h.Deliver(n)
	return nil
}

func (h *Hub) Subscribers(partnerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[partnerID])
}
