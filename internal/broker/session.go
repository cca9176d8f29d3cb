package broker

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// Close codes sent when the broker terminates a session.
const (
	CloseGoingAway = 1001
	CloseOverflow  = 1011
)

// Conn is the transport a session writes to. Implementations own write
// serialization and deadlines.
type Conn interface {
	WriteJSON(v any) error
	Close(code int, reason string) error
}

// Session is one subscriber: a bounded FIFO queue drained by a dedicated
// writer goroutine. The queue decouples fan-out from transport speed; the
// broker never blocks on a slow client.
type Session struct {
	ID     uuid.UUID
	Filter Filter

	conn      Conn
	queue     chan models.Envelope
	heartbeat time.Duration
	onClose   func(*Session)

	closeOnce   sync.Once
	done        chan struct{}
	closeCode   int
	closeReason string
}

func newSession(conn Conn, filter Filter, queueSize int, heartbeat time.Duration, onClose func(*Session)) *Session {
	return &Session{
		ID:        uuid.New(),
		Filter:    filter,
		conn:      conn,
		queue:     make(chan models.Envelope, queueSize),
		heartbeat: heartbeat,
		onClose:   onClose,
		done:      make(chan struct{}),
	}
}

// enqueue offers an envelope without blocking. Returns false when the
// queue is full; the caller decides the session's fate.
func (s *Session) enqueue(env models.Envelope) bool {
	select {
	case <-s.done:
		return true
	default:
	}
	select {
	case s.queue <- env:
		return true
	default:
		return false
	}
}

// Close terminates the session once: removes it from the broker, signals
// the writer and has it send the close frame. Safe to call concurrently.
func (s *Session) Close(code int, reason string) {
	s.closeOnce.Do(func() {
		s.closeCode = code
		s.closeReason = reason
		if s.onClose != nil {
			s.onClose(s)
		}
		close(s.done)
	})
}

// sendClose writes the close frame recorded by Close.
func (s *Session) sendClose() {
	if err := s.conn.Close(s.closeCode, s.closeReason); err != nil {
		log.Debug().Err(err).Str("session", s.ID.String()).Msg("Session close write failed")
	}
}

// run drains the queue in FIFO order. A heartbeat is written directly to
// the transport after a full interval without any write; it never enters
// the queue and never displaces queued events.
func (s *Session) run() {
	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	lastWrite := time.Now()
	for {
		// A pending close wins over queued envelopes: once Close has been
		// called the client gets the close frame and nothing else.
		select {
		case <-s.done:
			s.sendClose()
			return
		default:
		}

		select {
		case <-s.done:
			s.sendClose()
			return

		case env := <-s.queue:
			if err := s.conn.WriteJSON(env); err != nil {
				log.Debug().Err(err).Str("session", s.ID.String()).Msg("Session write failed")
				s.Close(CloseGoingAway, "write failed")
				continue
			}
			lastWrite = time.Now()

		case <-ticker.C:
			if time.Since(lastWrite) < s.heartbeat {
				continue
			}
			if err := s.conn.WriteJSON(models.PingEnvelope); err != nil {
				log.Debug().Err(err).Str("session", s.ID.String()).Msg("Session heartbeat failed")
				s.Close(CloseGoingAway, "write failed")
				continue
			}
			lastWrite = time.Now()
		}
	}
}
