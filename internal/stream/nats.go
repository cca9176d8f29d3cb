package stream

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/config"
)

// NATSStream consumes push messages from a NATS subject.
type NATSStream struct {
	cfg *config.NATSStreamConfig
}

// NewNATSStream creates a NATS-backed stream.
func NewNATSStream(cfg *config.NATSStreamConfig) *NATSStream {
	return &NATSStream{cfg: cfg}
}

// Start connects, subscribes and blocks until the context is cancelled.
// The client keeps reconnecting on its own; dropped messages during an
// outage are recovered by the next account refresh, not replayed.
func (s *NATSStream) Start(ctx context.Context, handler Handler) error {
	opts := []nats.Option{
		nats.MaxReconnects(s.cfg.MaxReconnects),
		nats.ReconnectWait(s.cfg.ReconnectInterval),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("Stream disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("Stream reconnected")
		}),
	}
	if s.cfg.Username != "" {
		opts = append(opts, nats.UserInfo(s.cfg.Username, s.cfg.Password))
	}

	nc, err := nats.Connect(s.cfg.URL, opts...)
	if err != nil {
		return fmt.Errorf("connect to stream: %w", err)
	}
	defer nc.Close()

	sub, err := nc.Subscribe(s.cfg.Subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.cfg.Subject, err)
	}

	log.Info().Str("subject", s.cfg.Subject).Msg("Push stream started")

	<-ctx.Done()

	sub.Unsubscribe()
	return nil
}
