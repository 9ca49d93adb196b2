package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Etcd     EtcdConfig     `mapstructure:"etcd"`
	Events   EventsConfig   `mapstructure:"events"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// GatewayConfig represents the upstream gateway API configuration
type GatewayConfig struct {
	BaseURL string        `mapstructure:"base_url"` // Gateway REST API base URL
	APIKey  string        `mapstructure:"api_key"`  // Admin API key for the gateway
	Timeout time.Duration `mapstructure:"timeout"`  // Per-request timeout
}

// ChartConfig represents the scatter chart axis configuration.
// The axis compresses the long tail of request intervals: the domain range
// [0, breakpoint] occupies lower_ratio of the display range, and
// (breakpoint, upper_bound] occupies the rest.
type ChartConfig struct {
	Breakpoint float64   `mapstructure:"breakpoint"`  // Domain value where the two linear segments meet
	LowerRatio float64   `mapstructure:"lower_ratio"` // Fraction of display range for [0, breakpoint], in (0,1)
	UpperBound float64   `mapstructure:"upper_bound"` // Domain upper bound (minutes)
	Landmarks  []float64 `mapstructure:"landmarks"`   // Domain values to place labeled ticks at
}

// SnapshotConfig represents snapshot cache configuration
type SnapshotConfig struct {
	Backend  string        `mapstructure:"backend"`   // redis (default) or memory
	RedisURL string        `mapstructure:"redis_url"` // Redis URL (e.g., redis://localhost:6379)
	RedisDB  int           `mapstructure:"redis_db"`  // Redis database number (default: 0)
	TTL      time.Duration `mapstructure:"ttl"`       // Snapshot entry TTL
}

// EtcdConfig represents etcd configuration for the alias registry
type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
}

// EventsConfig represents invalidation event bus configuration
type EventsConfig struct {
	Type     string `mapstructure:"type"`     // Bus type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Bus server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "console")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "console-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Gateway.Validate(); err != nil {
		return fmt.Errorf("gateway config: %w", err)
	}

	if err := c.Chart.Validate(); err != nil {
		return fmt.Errorf("chart config: %w", err)
	}

	if err := c.Snapshot.Validate(); err != nil {
		return fmt.Errorf("snapshot config: %w", err)
	}

	if err := c.Etcd.Validate(); err != nil {
		return fmt.Errorf("etcd config: %w", err)
	}

	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	return nil
}

// Validate validates gateway configuration
func (c *GatewayConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// Validate validates chart configuration.
// A bad axis configuration is a programming error, so the service refuses
// to start rather than rendering a broken chart.
func (c *ChartConfig) Validate() error {
	if c.UpperBound <= 0 {
		return fmt.Errorf("upper_bound must be positive")
	}

	if c.Breakpoint <= 0 || c.Breakpoint >= c.UpperBound {
		return fmt.Errorf("breakpoint must be strictly between 0 and upper_bound, got %v", c.Breakpoint)
	}

	if c.LowerRatio <= 0 || c.LowerRatio >= 1 {
		return fmt.Errorf("lower_ratio must be in (0,1), got %v", c.LowerRatio)
	}

	for _, lm := range c.Landmarks {
		if lm < 0 {
			return fmt.Errorf("landmark values must be non-negative, got %v", lm)
		}
	}

	return nil
}

// Validate validates snapshot cache configuration
func (c *SnapshotConfig) Validate() error {
	switch c.Backend {
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url is required for redis backend")
		}
	case "memory":
	default:
		return fmt.Errorf("backend must be 'redis' or 'memory', got %q", c.Backend)
	}

	if c.TTL <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	return nil
}

// Validate validates etcd configuration
func (c *EtcdConfig) Validate() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("etcd.endpoints is required")
	}

	if c.DialTimeout <= 0 {
		return fmt.Errorf("etcd.dial_timeout must be positive")
	}

	return nil
}

// Validate validates event bus configuration. An empty type means the
// factory's NATS default; case is ignored the way the factory ignores it.
func (c *EventsConfig) Validate() error {
	switch strings.ToLower(c.Type) {
	case "", "nats", "redis":
		if c.URL == "" {
			return fmt.Errorf("url is required for the %s bus", c.busTypeName())
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("kafka_brokers is required for the kafka bus")
		}
	case "memory":
	default:
		return fmt.Errorf("type must be one of: nats, redis, kafka, memory, got %q", c.Type)
	}

	return nil
}

func (c *EventsConfig) busTypeName() string {
	if c.Type == "" {
		return "nats"
	}
	return c.Type
}

// Validate validates authentication configuration
func (c *AuthConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if len(c.APIKeys) == 0 {
		return fmt.Errorf("api_keys is required when auth is enabled")
	}

	for i, key := range c.APIKeys {
		if key == "" {
			return fmt.Errorf("api_keys[%d] is empty", i)
		}
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
