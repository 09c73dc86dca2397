package usecase

import (
	"sync"

	"bazaar-backend/model"
)

// subscriberHub fans message-list updates out to the live subscribers of
// each conversation. A second subscription for the same conversation gets
// its own duplicate delivery; that is allowed, not an error.
type subscriberHub struct {
	mu    sync.RWMutex
	rooms map[string]map[int64]func([]model.Message)
	next  int64
}

func newSubscriberHub() *subscriberHub {
	return &subscriberHub{rooms: make(map[string]map[int64]func([]model.Message))}
}

// add registers a callback and returns its cancellation handle. The handle
// is idempotent: the subscription is released exactly once no matter how
// often it is invoked.
func (h *subscriberHub) add(conversationID string, fn func([]model.Message)) func() {
	h.mu.Lock()
	h.next++
	id := h.next
	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = make(map[int64]func([]model.Message))
	}
	h.rooms[conversationID][id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if room := h.rooms[conversationID]; room != nil {
				delete(room, id)
				if len(room) == 0 {
					delete(h.rooms, conversationID)
				}
			}
		})
	}
}

func (h *subscriberHub) callbacks(conversationID string) []func([]model.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room := h.rooms[conversationID]
	out := make([]func([]model.Message), 0, len(room))
	for _, fn := range room {
		out = append(out, fn)
	}
	return out
}
