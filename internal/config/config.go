package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Vendor   VendorConfig   `yaml:"vendor"`
	Stream   StreamConfig   `yaml:"stream"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Broker   BrokerConfig   `yaml:"broker"`
	Capture  CaptureConfig  `yaml:"capture"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig represents server identification
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// APIConfig represents REST/WebSocket listener configuration
type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// VendorConfig represents the vendor cloud API collaborator
type VendorConfig struct {
	BaseURL      string        `yaml:"base_url"`
	RefreshToken string        `yaml:"refresh_token"`
	Timeout      time.Duration `yaml:"timeout"`
}

// StreamConfig represents the upstream push-stream connection
type StreamConfig struct {
	// Kind selects the transport: "nats" or "mqtt"
	Kind string `yaml:"kind"`

	NATS NATSStreamConfig `yaml:"nats"`
	MQTT MQTTStreamConfig `yaml:"mqtt"`
}

// NATSStreamConfig represents NATS stream configuration
type NATSStreamConfig struct {
	URL               string        `yaml:"url"`
	Subject           string        `yaml:"subject"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	MaxReconnects     int           `yaml:"max_reconnects"`
	ReconnectInterval time.Duration `yaml:"reconnect_interval"`
}

// MQTTStreamConfig represents MQTT stream configuration
type MQTTStreamConfig struct {
	BrokerURL        string        `yaml:"broker_url"`
	Topic            string        `yaml:"topic"`
	ClientID         string        `yaml:"client_id"`
	Username         string        `yaml:"username"`
	Password         string        `yaml:"password"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"`
	MaxReconnectWait time.Duration `yaml:"max_reconnect_wait"`
}

// DatabaseConfig represents event-log database configuration
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// JWTConfig represents JWT configuration
type JWTConfig struct {
	Secret          string        `yaml:"secret"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`

	// Single API user; password stored as a bcrypt hash
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// BrokerConfig represents fan-out broker tuning
type BrokerConfig struct {
	QueueSize         int           `yaml:"queue_size"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
}

// CaptureConfig represents doorbell capture configuration
type CaptureConfig struct {
	Enabled         bool          `yaml:"enabled"`
	MediaRoot       string        `yaml:"media_root"`
	SnapshotTimeout time.Duration `yaml:"snapshot_timeout"`
	PollInterval    time.Duration `yaml:"poll_interval"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	// Environment overrides for secrets
	if token := os.Getenv("VENDOR_REFRESH_TOKEN"); token != "" {
		cfg.Vendor.RefreshToken = token
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a config populated with defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{Name: "vivint-bridge", Version: "dev"},
		API:    APIConfig{Host: "0.0.0.0", Port: 8080},
		Vendor: VendorConfig{Timeout: 30 * time.Second},
		Stream: StreamConfig{
			Kind: "nats",
			NATS: NATSStreamConfig{
				Subject:           "vivint.push.>",
				MaxReconnects:     -1,
				ReconnectInterval: 2 * time.Second,
			},
			MQTT: MQTTStreamConfig{
				Topic:            "vivint/push/#",
				ConnectTimeout:   10 * time.Second,
				MaxReconnectWait: time.Minute,
			},
		},
		JWT: JWTConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Broker: BrokerConfig{
			QueueSize:         1000,
			HeartbeatInterval: 30 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		Capture: CaptureConfig{
			MediaRoot:       "media",
			SnapshotTimeout: 10 * time.Second,
			PollInterval:    500 * time.Millisecond,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	switch c.Stream.Kind {
	case "nats", "mqtt", "":
	default:
		return fmt.Errorf("stream.kind must be nats or mqtt, got %q", c.Stream.Kind)
	}
	if c.Broker.QueueSize <= 0 {
		return fmt.Errorf("broker.queue_size must be positive")
	}
	if c.Broker.HeartbeatInterval <= 0 {
		return fmt.Errorf("broker.heartbeat_interval must be positive")
	}
	return nil
}
