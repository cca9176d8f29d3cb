package broker

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/config"
	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// Broker fans out normalized envelopes to subscriber sessions. Sessions
// are isolated: one slow or dead subscriber is evicted without delaying
// delivery to the others.
type Broker struct {
	cfg config.BrokerConfig

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// New creates a broker with no sessions.
func New(cfg config.BrokerConfig) *Broker {
	return &Broker{cfg: cfg, sessions: make(map[uuid.UUID]*Session)}
}

// Register creates a session over the connection, starts its writer and
// includes it in fan-out from this point on.
func (b *Broker) Register(conn Conn, filter Filter) *Session {
	s := newSession(conn, filter, b.cfg.QueueSize, b.cfg.HeartbeatInterval, b.remove)

	b.mu.Lock()
	b.sessions[s.ID] = s
	n := len(b.sessions)
	b.mu.Unlock()

	go s.run()
	log.Debug().Str("session", s.ID.String()).Int("sessions", n).Msg("Session registered")
	return s
}

func (b *Broker) remove(s *Session) {
	b.mu.Lock()
	delete(b.sessions, s.ID)
	n := len(b.sessions)
	b.mu.Unlock()
	log.Debug().Str("session", s.ID.String()).Int("sessions", n).Msg("Session removed")
}

// SessionCount returns the number of live sessions.
func (b *Broker) SessionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions)
}

// Publish enqueues the envelope on every matching session. Never blocks;
// a session whose queue is full is closed with an overflow code rather
// than slowing the rest down.
func (b *Broker) Publish(env models.Envelope) {
	b.mu.RLock()
	matched := make([]*Session, 0, len(b.sessions))
	for _, s := range b.sessions {
		if s.Filter.Matches(env) {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range matched {
		if !s.enqueue(env) {
			log.Warn().
				Str("session", s.ID.String()).
				Str("event", env.EventName).
				Msg("Session queue full, evicting subscriber")
			s.Close(CloseOverflow, "subscriber too slow")
		}
	}
}

// Shutdown closes every session with a going-away code.
func (b *Broker) Shutdown() {
	b.mu.RLock()
	sessions := make([]*Session, 0, len(b.sessions))
	for _, s := range b.sessions {
		sessions = append(sessions, s)
	}
	b.mu.RUnlock()

	for _, s := range sessions {
		s.Close(CloseGoingAway, "server shutting down")
	}
}
