// Package config loads daemon settings from an optional TOML file, overlaid
// with RETAILCORE_* environment variables. Environment always wins so
// container deployments can override a baked-in file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	defaultOpsAddr       = ":9464"
	defaultMetricsPath   = "/metrics"
	defaultLogLevel      = "info"
	defaultStorageDriver = "sqlite"
	defaultBlobDriver    = "fs"
	defaultQueueSize     = 64
)

// Config stores runtime settings for the retailcore daemon.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Blob    BlobConfig    `toml:"blob"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
	Notify  NotifyConfig  `toml:"notify"`
}

// ServerConfig holds the operational HTTP listener settings.
type ServerConfig struct {
	OpsAddr string `toml:"ops_addr"`
}

// StorageConfig selects the persistent store backend.
type StorageConfig struct {
	Driver      string `toml:"driver"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn"`
}

// BlobConfig selects the attachment blob backend.
type BlobConfig struct {
	Driver     string `toml:"driver"`
	FSRoot     string `toml:"fs_root"`
	S3Bucket   string `toml:"s3_bucket"`
	S3Region   string `toml:"s3_region"`
	S3Endpoint string `toml:"s3_endpoint"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// NotifyConfig holds notification dispatcher settings.
type NotifyConfig struct {
	QueueSize int `toml:"queue_size"`
}

func defaults() Config {
	return Config{
		Server:  ServerConfig{OpsAddr: defaultOpsAddr},
		Storage: StorageConfig{Driver: defaultStorageDriver},
		Blob:    BlobConfig{Driver: defaultBlobDriver},
		Logging: LoggingConfig{Level: defaultLogLevel, Format: "text"},
		Metrics: MetricsConfig{Enabled: true, Path: defaultMetricsPath},
		Notify:  NotifyConfig{QueueSize: defaultQueueSize},
	}
}

// Load builds the configuration from defaults, the optional TOML file at
// path, and finally the environment. An empty path skips the file stage; a
// named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		if err := overlayFromFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	overlayFromEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayFromFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("stat config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func overlayFromEnv(cfg *Config) {
	setString(&cfg.Server.OpsAddr, "RETAILCORE_OPS_ADDR")
	setString(&cfg.Storage.Driver, "RETAILCORE_STORAGE_DRIVER")
	setString(&cfg.Storage.SQLitePath, "RETAILCORE_SQLITE_PATH")
	setString(&cfg.Storage.PostgresDSN, "RETAILCORE_POSTGRES_DSN")
	setString(&cfg.Blob.Driver, "RETAILCORE_BLOB_DRIVER")
	setString(&cfg.Blob.FSRoot, "RETAILCORE_BLOB_FS_ROOT")
	setString(&cfg.Blob.S3Bucket, "RETAILCORE_BLOB_S3_BUCKET")
	setString(&cfg.Blob.S3Region, "RETAILCORE_BLOB_S3_REGION")
	setString(&cfg.Blob.S3Endpoint, "RETAILCORE_BLOB_S3_ENDPOINT")
	setString(&cfg.Logging.Level, "RETAILCORE_LOG_LEVEL")
	setString(&cfg.Logging.Format, "RETAILCORE_LOG_FORMAT")
	setInt(&cfg.Notify.QueueSize, "RETAILCORE_NOTIFY_QUEUE_SIZE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("storage.driver %q is not one of memory, sqlite, postgres", c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case "memory", "fs", "s3":
	default:
		return fmt.Errorf("blob.driver %q is not one of memory, fs, s3", c.Blob.Driver)
	}
	if c.Notify.QueueSize <= 0 {
		return fmt.Errorf("notify.queue_size must be positive, got %d", c.Notify.QueueSize)
	}
	return nil
}
