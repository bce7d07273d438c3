package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string `mapstructure:"env"`                   // current application environment (local, dev, production etc)
	TelegramAPIToken string `mapstructure:"-" validate:"required"` // Telegram API token loaded from environment
	DB               DB     `mapstructure:"database"`              // database configuration section
	Quiz             Quiz   `mapstructure:"quiz"`                  // quiz rules
	Upload           Upload `mapstructure:"upload"`                // document upload limits
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-" validate:"required"`           // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections" validate:"gt=0"` // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`               // maximum lifetime of a single connection
}

// Quiz contains the parameters of a quiz session.
type Quiz struct {
	SessionSize    int           `mapstructure:"session_size" validate:"gt=0"`
	PassThreshold  int           `mapstructure:"pass_threshold" validate:"gte=0,lte=100"`
	TimeLimit      time.Duration `mapstructure:"time_limit" validate:"gt=0"`
	LowTimeWarning time.Duration `mapstructure:"low_time_warning" validate:"gte=0"`
	ExpirySchedule string        `mapstructure:"expiry_schedule" validate:"required"`
	HistoryLimit   int           `mapstructure:"history_limit" validate:"gt=0"`
}

// Upload limits accepted question bank documents.
type Upload struct {
	MaxBytes int64 `mapstructure:"max_bytes" validate:"gt=0"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from a .env file, config files and environment variables.
func Load() (*Config, error) {
	// Variables already present in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("quiz.session_size", 40)
	v.SetDefault("quiz.pass_threshold", 80)
	v.SetDefault("quiz.time_limit", "60m")
	v.SetDefault("quiz.low_time_warning", "5m")
	v.SetDefault("quiz.expiry_schedule", "@every 5s")
	v.SetDefault("quiz.history_limit", 10)
	v.SetDefault("upload.max_bytes", 1<<20)
}

func fromViper(v *viper.Viper) (*Config, error) {
	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	if cfg.TelegramAPIToken == "" || cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &cfg, nil
}
