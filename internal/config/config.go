package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the CLI configuration loaded from .env files and environment variables.
type Config struct {
	Endpoint       string        `mapstructure:"questdb_endpoint"`
	TimeoutSeconds int64         `mapstructure:"questdb_timeout_seconds"`
	Timeout        time.Duration `mapstructure:"-"`
	LogLevel       string        `mapstructure:"log_level"`
}

// Load reads configuration from a .env file in the working directory and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()

	v.SetDefault("questdb_endpoint", "http://localhost:9000")
	v.SetDefault("questdb_timeout_seconds", 0) // no timeout
	v.SetDefault("log_level", "warn")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("questdb_endpoint must not be empty")
	}
	if cfg.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid questdb_timeout_seconds (must not be negative)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	return &cfg, nil
}
