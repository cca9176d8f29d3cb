package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/broker"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsConn adapts a gorilla connection to the broker's transport
// interface. Writes are serialized because the session writer and a
// close from Publish can race.
type wsConn struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (c *wsConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) Close(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	deadline := time.Now().Add(c.writeTimeout)
	c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	return c.conn.Close()
}

// HandleEventSocket upgrades the connection and registers an event
// subscriber. Authentication happens here rather than in middleware so
// the token query parameter fallback applies.
func (s *RESTServer) HandleEventSocket(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		s.respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	if _, err := s.auth.ValidateToken(token); err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	filter := broker.Filter{
		SystemID: queryInt64(r, "system_id"),
		DeviceID: queryInt64(r, "device_id"),
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	session := s.broker.Register(&wsConn{
		conn:         conn,
		writeTimeout: s.config.Broker.WriteTimeout,
	}, filter)

	log.Info().
		Str("session_id", session.ID.String()).
		Str("remote", r.RemoteAddr).
		Msg("Event subscriber connected")

	// Reader loop. Inbound frames are discarded, but reading is what
	// surfaces pings, pongs and client disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				session.Close(broker.CloseGoingAway, "client disconnected")
				return
			}
		}
	}()
}
