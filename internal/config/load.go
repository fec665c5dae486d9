package config

import (
	"errors"
	"fmt"
	"strings"
	_ "time/tzdata" // timezone validation must not depend on the host zoneinfo

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. DAMU_SERVER_PORT or DAMU_DATABASE_URL.
const EnvPrefix = "DAMU"

// Load configuration from environment variables and optionally a config.yaml
// file in the working directory. Environment variables take precedence over
// values from the config file. Returns a populated Config struct or an error
// if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to Unmarshal unless bound explicitly.
	for _, key := range []string{"database.url", "auth.jwt_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env var for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)

	v.SetDefault("hydration.default_timezone", "UTC")
	v.SetDefault("hydration.intake_rate_per_minute", 30)

	v.SetDefault("batch.enabled", true)
	v.SetDefault("batch.schedule", "1 * * * *")
	v.SetDefault("batch.worker_count", 2)
	v.SetDefault("batch.queue_size", 100)
	v.SetDefault("batch.user_concurrency", 8)
	v.SetDefault("batch.max_catch_up_days", 7)
	v.SetDefault("batch.stuck_task_age_minutes", 30)
}
