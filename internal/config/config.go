package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App      App      `mapstructure:",squash"`
	AWS      AWS      `mapstructure:",squash"`
	Fetch    Fetch    `mapstructure:",squash"`
	Output   Output   `mapstructure:",squash"`
	Snapshot Snapshot `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type AWS struct {
	DefaultRegion string `mapstructure:"aws_default_region"`
}

type Fetch struct {
	MaxWorkers          int `mapstructure:"fetch_max_workers"`
	MaxAttempts         int `mapstructure:"fetch_max_attempts"`
	QueryTimeoutSeconds int `mapstructure:"fetch_query_timeout_seconds"`
	BackoffBaseMs       int `mapstructure:"fetch_backoff_base_ms"`
	BackoffMaxMs        int `mapstructure:"fetch_backoff_max_ms"`
}

type Output struct {
	Dir string `mapstructure:"output_dir"`
}

type Snapshot struct {
	CronSchedule string `mapstructure:"snapshot_cron"`
	Enabled      bool   `mapstructure:"snapshot_enabled"`
}

// QueryTimeout returns the per-attempt deadline for one remote query.
func (f Fetch) QueryTimeout() time.Duration {
	return time.Duration(f.QueryTimeoutSeconds) * time.Second
}

// BackoffBase returns the first backoff delay after a retryable failure.
func (f Fetch) BackoffBase() time.Duration {
	return time.Duration(f.BackoffBaseMs) * time.Millisecond
}

// BackoffMax caps the exponential backoff growth.
func (f Fetch) BackoffMax() time.Duration {
	return time.Duration(f.BackoffMaxMs) * time.Millisecond
}

func SetDefaults() {
	viper.SetDefault("LOG_LEVEL", "info")

	// us-west-2 is the historical fallback for accounts without a region.
	viper.SetDefault("AWS_DEFAULT_REGION", "us-west-2")

	viper.SetDefault("FETCH_MAX_WORKERS", 16)
	viper.SetDefault("FETCH_MAX_ATTEMPTS", 5)
	viper.SetDefault("FETCH_QUERY_TIMEOUT_SECONDS", 30)
	viper.SetDefault("FETCH_BACKOFF_BASE_MS", 200)
	viper.SetDefault("FETCH_BACKOFF_MAX_MS", 30000)

	viper.SetDefault("OUTPUT_DIR", ".")

	viper.SetDefault("SNAPSHOT_CRON", "0 6 * * *")
	viper.SetDefault("SNAPSHOT_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("No .env file read by viper, relying on environment: ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads a .env from the working directory or its parent, for
// local runs only. Missing files are fine.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Could not determine working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("Loaded environment from ", location)
			return
		}
	}
}
