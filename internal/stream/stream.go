package stream

import (
	"context"
	"fmt"

	"github.com/ChrisWondeFro/vivintpy/internal/config"
)

// Handler receives one raw push-stream payload. Implementations must not
// retain the slice past the call.
type Handler func(payload []byte)

// Stream is a push-stream consumer. Start blocks until the context is
// cancelled and owns reconnection for the life of the subscription.
type Stream interface {
	Start(ctx context.Context, handler Handler) error
}

// New builds the stream selected by configuration.
func New(cfg *config.StreamConfig) (Stream, error) {
	switch cfg.Kind {
	case "", "nats":
		return NewNATSStream(&cfg.NATS), nil
	case "mqtt":
		return NewMQTTStream(&cfg.MQTT), nil
	default:
		return nil, fmt.Errorf("unknown stream kind %q", cfg.Kind)
	}
}
