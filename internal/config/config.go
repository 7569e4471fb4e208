package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wb-go/wbf/zlog"
	"gitlab.com/tozd/go/errors"
)

// Config holds the main configuration for the application.
type Config struct {
	Augment Augment `mapstructure:"augment"`
	Storage Storage `mapstructure:"storage"`
	Kafka   Kafka   `mapstructure:"kafka"`
	Retry   Retry   `mapstructure:"retry"`
}

// Augment holds the settings of an augmentation run.
type Augment struct {
	ImageDir     string   `mapstructure:"image_dir"`    // Root directory to scan
	Workers      int      `mapstructure:"workers"`      // Worker pool size, at least 1
	Extensions   []string `mapstructure:"extensions"`   // Case-sensitive file extensions to process
	Combinations []string `mapstructure:"combinations"` // Comma-separated operation codes, one chain each
	DryRun       bool     `mapstructure:"dry_run"`      // Log targets without writing them
}

// Storage holds configuration for the optional object storage mirror.
type Storage struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	Prefix     string `mapstructure:"prefix"` // Key prefix for mirrored objects
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// Kafka holds configuration for the optional event topic.
type Kafka struct {
	Enabled bool     `mapstructure:"enabled"`
	Topic   string   `mapstructure:"topic"`   // Kafka topic name
	Brokers []string `mapstructure:"brokers"` // List of Kafka broker addresses
}

// Retry defines retry policy configuration.
type Retry struct {
	Attempts int           `mapstructure:"attempts"` // Number of retry attempts
	Delay    time.Duration `mapstructure:"delay"`    // Initial delay between retries
	Backoff  float64       `mapstructure:"backoff"`  // Backoff multiplier for delays
}

// DefaultCombinations is the set of chains requested when none are configured.
var DefaultCombinations = []string{
	"fliph",
	"noise_0.01",
	"noise_0.03",
	"noise_0.05",
	"trans_10_10",
	"trans_20_20",
	"blur_1.0",
	"blur_2.0",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("augment.image_dir", "./data")
	v.SetDefault("augment.workers", 4)
	v.SetDefault("augment.extensions", []string{"png", "jpg", "jpeg", "bmp"})
	v.SetDefault("augment.combinations", DefaultCombinations)
	v.SetDefault("augment.dry_run", false)

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.bucket_name", "augmented")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "image-augmented")

	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", 100*time.Millisecond)
	v.SetDefault("retry.backoff", 2.0)
}

// bindEnv binds credentials to environment variables so they never have to
// live in the config file.
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"storage.access_key": "MINIO_ACCESS_KEY",
		"storage.secret_key": "MINIO_SECRET_KEY",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return errors.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	return nil
}

// Load reads the configuration from path, applying defaults and AUGMENT_*
// environment overrides (e.g. AUGMENT_AUGMENT_WORKERS). An empty path loads
// defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("augment")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads the configuration from the specified file path.
// It panics if the configuration file cannot be loaded or unmarshaled.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to load config")
	}

	return cfg
}
