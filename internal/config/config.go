package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Hydration HydrationConfig `mapstructure:"hydration" validate:"required"`
	Batch     BatchConfig     `mapstructure:"batch"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
}

// AuthConfig holds the shared secret used to verify access tokens issued by
// the external auth service.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// HydrationConfig contains settings for intake accounting.
type HydrationConfig struct {
	// DefaultTimezone is applied to users without a stored timezone.
	DefaultTimezone string `mapstructure:"default_timezone" validate:"required,timezone"`
	// IntakeRatePerMinute caps intake writes per user. Zero disables the limit.
	IntakeRatePerMinute int `mapstructure:"intake_rate_per_minute" validate:"gte=0"`
}

// BatchConfig controls the daily streak batch and the task runner executing it.
type BatchConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	Schedule            string `mapstructure:"schedule"               validate:"required,cron"`
	WorkerCount         int    `mapstructure:"worker_count"           validate:"gte=1"`
	QueueSize           int    `mapstructure:"queue_size"             validate:"gte=1"`
	UserConcurrency     int    `mapstructure:"user_concurrency"       validate:"gte=1"`
	MaxCatchUpDays      int    `mapstructure:"max_catch_up_days"      validate:"gte=1,lte=31"`
	StuckTaskAgeMinutes int    `mapstructure:"stuck_task_age_minutes" validate:"gte=1"`
}
