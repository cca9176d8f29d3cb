package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
	"github.com/ChrisWondeFro/vivintpy/internal/vivint"
)

// Publisher is the subscriber-facing fan-out sink.
type Publisher interface {
	Publish(env models.Envelope)
}

// Recorder persists envelopes for the history endpoints.
type Recorder interface {
	SaveEvent(ctx context.Context, env models.Envelope) error
}

const persistTimeout = 5 * time.Second

// Normalizer turns raw push-stream payloads into normalized envelopes. Raw
// messages are routed into the object model, whose change events come back
// through the account dispatcher; both the raw passthrough and the
// synthesized events leave as envelopes stamped with the local clock.
type Normalizer struct {
	account *vivint.Account
	broker  Publisher
	bus     *Bus
	store   Recorder
}

// NewNormalizer wires the normalizer as the account's event sink. store
// may be nil when event history is disabled.
func NewNormalizer(account *vivint.Account, broker Publisher, bus *Bus, store Recorder) *Normalizer {
	n := &Normalizer{account: account, broker: broker, bus: bus, store: store}
	account.SetDispatcher(n.dispatch)
	return n
}

// HandleRaw ingests one raw payload from the push stream. Malformed
// payloads are logged and dropped; they never take the stream down.
func (n *Normalizer) HandleRaw(payload []byte) {
	var msg models.PushMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Warn().Err(err).Int("bytes", len(payload)).Msg("Dropping malformed stream payload")
		return
	}
	if msg.PanelID == 0 {
		log.Warn().Str("type", msg.Type).Msg("Dropping stream message without panel id")
		return
	}

	// Route into the object model first so the passthrough envelope below
	// observes post-update attribute state in lookups.
	n.account.HandleMessage(msg)

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err == nil {
		n.dispatch(msg.Type, msg.PanelID, 0, raw)
	}
}

// Emit publishes a synthesized event through the same fan-out path as
// entity changes. Used by components that produce events of their own,
// such as the capture manager.
func (n *Normalizer) Emit(event string, systemID, deviceID int64, data map[string]any) {
	n.dispatch(event, systemID, deviceID, data)
}

// dispatch is the account-wide event sink: every entity change and every
// raw passthrough lands here and leaves as an envelope.
func (n *Normalizer) dispatch(event string, systemID, deviceID int64, data map[string]any) {
	env := models.NewEnvelope(event, systemID, deviceID, data)

	n.broker.Publish(env)
	n.bus.Publish(env)

	if n.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := n.store.SaveEvent(ctx, env); err != nil {
			log.Error().Err(err).Str("event", event).Msg("Event persist failed")
		}
	}
}
