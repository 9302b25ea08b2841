// Package realtime carries newly created matches from the interaction layer
// to signed-in devices: an in-process insert-event feed plus the socket.io
// surface that delivers popups and relays DM traffic.
package realtime

import (
	"sync"

	"golfmatch_server/models"

	"github.com/rs/zerolog/log"
)

const defaultSubscriberBuffer = 16

// Feed fans match-insert events out to every subscriber. Delivery is
// best-effort: a subscriber that stops draining its channel loses events
// rather than stalling the publisher, which the backlog fetch on next attach
// recovers.
type Feed struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan models.MatchInsertEvent
	closed bool
}

func NewFeed() *Feed {
	return &Feed{
		subs: make(map[uint64]chan models.MatchInsertEvent),
	}
}

// Subscribe registers a listener and returns its event channel plus a cancel
// function. Cancel is idempotent and closes the channel. Subscribing to a
// closed feed yields an already-closed channel.
func (f *Feed) Subscribe(buffer int) (<-chan models.MatchInsertEvent, func()) {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	events := make(chan models.MatchInsertEvent, buffer)
	if f.closed {
		close(events)
		return events, func() {}
	}

	id := f.nextID
	f.nextID++
	f.subs[id] = events

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
	return events, cancel
}

// Publish delivers an event to every subscriber without blocking
func (f *Feed) Publish(event models.MatchInsertEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}

	for id, sub := range f.subs {
		select {
		case sub <- event:
		default:
			log.Warn().Msgf("⚠️ Feed subscriber %d saturated, dropping match event %s", id, event.MatchID)
		}
	}
}

// Close stops delivery and closes every subscriber channel
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, sub := range f.subs {
		delete(f.subs, id)
		close(sub)
	}
}
