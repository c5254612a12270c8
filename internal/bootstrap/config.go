// Package bootstrap wires OrderStore, the two caches, EventBus,
// BatchPipeline, StressHarness, MetricsCounter, and the Fiber app together,
// reading configuration from the environment via reflection over struct
// tags.
package bootstrap

import (
	"time"

	"github.com/ordermesh/orderflow/pkg/env"
)

// ApplicationName names the process for log lines and the Launcher.
const ApplicationName = "orderflow"

// Config is the top-level configuration struct for the whole process.
type Config struct {
	EnvName               string `env:"ENV_NAME"`
	LogLevel              string `env:"LOG_LEVEL"`
	Port                  string `env:"PORT"`
	Host                  string `env:"HOST"`
	BatchSize             int64  `env:"BATCH_SIZE"`
	OrderCacheTTLSeconds  int64  `env:"ORDER_CACHE_TTL_SECONDS"`
	IdempotencyTTLSeconds int64  `env:"IDEMPOTENCY_TTL_SECONDS"`
}

// ServerAddress joins Host and Port into a net.Listen-ready address.
func (c *Config) ServerAddress() string {
	return c.Host + ":" + c.Port
}

// OrderCacheTTL returns OrderCacheTTLSeconds as a time.Duration.
func (c *Config) OrderCacheTTL() time.Duration {
	return time.Duration(c.OrderCacheTTLSeconds) * time.Second
}

// IdempotencyTTL returns IdempotencyTTLSeconds as a time.Duration.
func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempotencyTTLSeconds) * time.Second
}

// LoadConfig loads .env (for local runs), then populates a Config from
// environment variables, applying the defaults below to anything unset.
func LoadConfig() *Config {
	cfg := &Config{
		EnvName:               "local",
		LogLevel:              "info",
		Port:                  "3002",
		Host:                  "0.0.0.0",
		BatchSize:             100,
		OrderCacheTTLSeconds:  300,
		IdempotencyTTLSeconds: 86400,
	}

	env.Load(env.GetenvOrDefault("ENV_NAME", cfg.EnvName))

	if err := env.SetFromEnvVars(cfg); err != nil {
		panic(err)
	}

	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	} else if cfg.BatchSize > 1000 {
		cfg.BatchSize = 1000
	}

	return cfg
}
