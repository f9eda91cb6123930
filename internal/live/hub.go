package live

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/jamanager/internal/domain"
)

// Subscriber is the transport half a Hub fans out to. *Conn satisfies it;
// tests substitute their own.
type Subscriber interface {
	TrySend(frame []byte) error
	Close()
}

// Hub keys subscribers by jam. It is an explicit injected object, not a
// package global, so it can be unit-tested and later swapped for a shared
// external registry.
//
// Per-song ordering: the hub itself only preserves enqueue order per
// subscriber. Mutators hold the per-(jam, song) lock across commit and
// Publish, so events for one song reach every queue in commit order.
type Hub struct {
	mu   sync.RWMutex
	jams map[domain.JamID]map[Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{jams: make(map[domain.JamID]map[Subscriber]struct{})}
}

// Subscribe registers a connection under a jam.
func (h *Hub) Subscribe(jamID domain.JamID, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.jams[jamID]
	if !ok {
		set = make(map[Subscriber]struct{})
		h.jams[jamID] = set
	}
	set[sub] = struct{}{}
	log.Info().Str("module", "live").Str("jam", string(jamID)).Int("subscribers", len(set)).Msg("client subscribed")
}

// Unsubscribe removes a connection; empty jam sets are dropped.
func (h *Hub) Unsubscribe(jamID domain.JamID, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.jams[jamID]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.jams, jamID)
	}
	log.Info().Str("module", "live").Str("jam", string(jamID)).Int("subscribers", len(set)).Msg("client unsubscribed")
}

// Subscribers reports how many connections watch a jam.
func (h *Hub) Subscribers(jamID domain.JamID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.jams[jamID])
}

// Publish serializes the event once and hands it to every subscriber of the
// owning jam. A failed or backpressured connection is dropped on the spot;
// it never aborts delivery to the rest.
func (h *Hub) Publish(evt Event) {
	frame, err := json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}{Event: evt.Type, Data: evt.Data})
	if err != nil {
		log.Error().Err(err).Str("module", "live").Str("event", evt.Type).Msg("marshal event")
		return
	}

	h.mu.RLock()
	set := h.jams[evt.JamID]
	var dropped []Subscriber
	for sub := range set {
		if err := sub.TrySend(frame); err != nil {
			dropped = append(dropped, sub)
		}
	}
	sent := len(set) - len(dropped)
	h.mu.RUnlock()

	for _, sub := range dropped {
		h.Unsubscribe(evt.JamID, sub)
		sub.Close()
	}
	log.Debug().Str("module", "live").Str("jam", string(evt.JamID)).Str("event", evt.Type).
		Int("sent_to", sent).Int("dropped", len(dropped)).Msg("broadcast result")
}
