package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")            // Current directory
		v.AddConfigPath("./configs")    // Project configs directory
		v.AddConfigPath("/etc/console") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix("CONSOLE")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 6060)

	// Gateway defaults
	v.SetDefault("gateway.base_url", "http://localhost:8080")
	v.SetDefault("gateway.timeout", "15s")

	// Chart defaults: request intervals up to 2h, the first 10 minutes take
	// 70% of the axis
	v.SetDefault("chart.breakpoint", 10.0)
	v.SetDefault("chart.lower_ratio", 0.7)
	v.SetDefault("chart.upper_bound", 120.0)
	v.SetDefault("chart.landmarks", []float64{0, 2, 5, 10, 30, 60, 120})

	// Snapshot defaults
	v.SetDefault("snapshot.backend", "redis")
	v.SetDefault("snapshot.redis_url", "redis://localhost:6379")
	v.SetDefault("snapshot.ttl", "60s")

	// Etcd defaults
	v.SetDefault("etcd.endpoints", []string{"http://localhost:2379"})
	v.SetDefault("etcd.dial_timeout", "5s")

	// Events defaults
	v.SetDefault("events.type", "nats")
	v.SetDefault("events.url", "nats://localhost:4222")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 6060,
		},
		Gateway: GatewayConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 15 * time.Second,
		},
		Chart: ChartConfig{
			Breakpoint: 10,
			LowerRatio: 0.7,
			UpperBound: 120,
			Landmarks:  []float64{0, 2, 5, 10, 30, 60, 120},
		},
		Snapshot: SnapshotConfig{
			Backend:  "redis",
			RedisURL: "redis://localhost:6379",
			TTL:      60 * time.Second,
		},
		Etcd: EtcdConfig{
			Endpoints:   []string{"http://localhost:2379"},
			DialTimeout: 5 * time.Second,
		},
		Events: EventsConfig{
			Type: "nats",
			URL:  "nats://localhost:4222",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
