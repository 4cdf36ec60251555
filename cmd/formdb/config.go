package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of the formdb command.
type Config struct {
	// Store is the storage URL, see openBackend.
	Store string `yaml:"store"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Compression of written dumps: none, lz4 or zstd. File stores also
	// take it from a .zst or .lz4 suffix.
	Compression string `yaml:"compression"`

	S3    S3Config    `yaml:"s3"`
	MinIO MinIOConfig `yaml:"minio"`
}

// S3Config configures s3:// stores.
type S3Config struct {
	Region   string `yaml:"region"`
	DDBTable string `yaml:"ddb_table"` // enables the DynamoDB commit pointer
}

// MinIOConfig configures minio:// stores.
type MinIOConfig struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
	Region    string `yaml:"region"`
}

// loadConfig reads the YAML file at path. An empty path yields the zero Config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv fills MinIO credentials from the environment when the file
// leaves them empty.
func (c *Config) applyEnv() {
	if c.MinIO.AccessKey == "" {
		c.MinIO.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	}
	if c.MinIO.SecretKey == "" {
		c.MinIO.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	}
}

// logLevel resolves the effective level. verbose raises it to at least Info.
func (c *Config) logLevel(verbose bool) (slog.Level, error) {
	level := slog.LevelWarn
	if c.LogLevel != "" {
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return level, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
		}
	}
	if verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}
	return level, nil
}
