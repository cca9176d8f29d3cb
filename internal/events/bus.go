package events

import (
	"sync"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// Bus is an in-process pub/sub for normalized envelopes. Publish never
// blocks; a subscriber that cannot keep up loses events rather than
// stalling the stream path.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan models.Envelope
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus { return &Bus{subs: make(map[int]chan models.Envelope)} }

// Subscribe registers a buffered subscription. The cancel func is
// idempotent and closes the channel.
func (b *Bus) Subscribe(buffer int) (ch <-chan models.Envelope, cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	c := make(chan models.Envelope, buffer)
	b.subs[id] = c
	cancel = func() {
		b.mu.Lock()
		if sc, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sc)
		}
		b.mu.Unlock()
	}
	return c, cancel
}

// Publish delivers the envelope to every subscriber with room in its
// buffer and drops it for the rest.
func (b *Bus) Publish(env models.Envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- env:
		default:
		}
	}
}
