package stream

import (
	"context"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/config"
)

// MQTTStream consumes push messages from an MQTT topic.
type MQTTStream struct {
	cfg *config.MQTTStreamConfig
}

// NewMQTTStream creates an MQTT-backed stream.
func NewMQTTStream(cfg *config.MQTTStreamConfig) *MQTTStream {
	return &MQTTStream{cfg: cfg}
}

// Start connects, subscribes and blocks until the context is cancelled.
// Reconnects and resubscribes are delegated to the client.
func (s *MQTTStream) Start(ctx context.Context, handler Handler) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.BrokerURL).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(s.cfg.ConnectTimeout).
		SetMaxReconnectInterval(s.cfg.MaxReconnectWait)

	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
		opts.SetPassword(s.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("Stream connection lost")
	})
	// Resubscribe on every (re)connect so a broker restart does not leave
	// the bridge silently deaf.
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		token := client.Subscribe(s.cfg.Topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			handler(msg.Payload())
		})
		token.Wait()
		if err := token.Error(); err != nil {
			log.Error().Err(err).Str("topic", s.cfg.Topic).Msg("Stream subscribe failed")
			return
		}
		log.Info().Str("topic", s.cfg.Topic).Msg("Push stream started")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(s.cfg.ConnectTimeout) {
		return fmt.Errorf("connect to stream: timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to stream: %w", err)
	}

	<-ctx.Done()

	client.Disconnect(250)
	return nil
}
