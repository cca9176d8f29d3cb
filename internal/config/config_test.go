package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  port: 9090
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "0.0.0.0", cfg.API.Host)
	assert.Equal(t, "nats", cfg.Stream.Kind)
	assert.Equal(t, 1000, cfg.Broker.QueueSize)
	assert.Equal(t, 30*time.Second, cfg.Broker.HeartbeatInterval)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
vendor:
  refresh_token: from-file
jwt:
  secret: from-file
database:
  dsn: from-file
`)
	t.Setenv("VENDOR_REFRESH_TOKEN", "from-env")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DSN", "postgres://env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Vendor.RefreshToken)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestValidateRejectsBadStreamKind(t *testing.T) {
	cfg := Default()
	cfg.Stream.Kind = "carrier-pigeon"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadBrokerTuning(t *testing.T) {
	cfg := Default()
	cfg.Broker.QueueSize = 0
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Broker.HeartbeatInterval = 0
	require.Error(t, cfg.Validate())
}

func TestLoadMQTTStream(t *testing.T) {
	path := writeConfig(t, `
stream:
  kind: mqtt
  mqtt:
    broker_url: tcp://broker:1883
    topic: vivint/push/#
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mqtt", cfg.Stream.Kind)
	assert.Equal(t, "tcp://broker:1883", cfg.Stream.MQTT.BrokerURL)
	assert.Equal(t, 10*time.Second, cfg.Stream.MQTT.ConnectTimeout)
}
