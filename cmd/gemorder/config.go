package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/gemgo"
	"github.com/hupe1980/gemgo/blobstore/minio"
	"github.com/hupe1980/gemgo/resource"
)

// Config is the gemorder configuration file.
type Config struct {
	Rounds        int         `yaml:"rounds" validate:"gt=0"`
	MinimumViable int         `yaml:"minimum_viable" validate:"gte=0"`
	Codec         string      `yaml:"codec" validate:"oneof=json go-json"`
	Compression   string      `yaml:"compression" validate:"omitempty,oneof=auto none raw zstd zst lz4"`
	MetricsAddr   string      `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	Log           LogConfig   `yaml:"log"`
	Store         StoreConfig `yaml:"store"`

	Resources resource.Config `yaml:"resources"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Format string `yaml:"format" validate:"oneof=text json"`
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
}

// StoreConfig selects the blob store backend.
type StoreConfig struct {
	Backend string        `yaml:"backend" validate:"oneof=memory local s3 minio"`
	Path    string        `yaml:"path"`
	Prefix  string        `yaml:"prefix"`
	S3      *S3Config     `yaml:"s3" validate:"omitempty"`
	Minio   *minio.Config `yaml:"minio" validate:"omitempty"`
}

// S3Config configures the S3 backend. With DDBTable set, CURRENT pointers
// are committed through DynamoDB.
type S3Config struct {
	Bucket   string `yaml:"bucket" validate:"required"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
	DDBTable string `yaml:"ddb_table"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Rounds:        gemgo.DefaultRounds,
		MinimumViable: gemgo.DefaultMinimumViable,
		Codec:         "go-json",
		Compression:   "auto",
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Store: StoreConfig{
			Backend: "local",
			Path:    ".",
		},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and backend specific sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Store.Backend {
	case "local":
		if c.Store.Path == "" {
			return errors.New("invalid config: store.path is required for the local backend")
		}
	case "s3":
		if c.Store.S3 == nil {
			return errors.New("invalid config: store.s3 is required for the s3 backend")
		}
	case "minio":
		if c.Store.Minio == nil {
			return errors.New("invalid config: store.minio is required for the minio backend")
		}
	}
	return nil
}

// Logger builds the logger described by the log section.
func (c LogConfig) Logger(w io.Writer) (*gemgo.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return gemgo.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return gemgo.NewLogger(slog.NewTextHandler(w, opts)), nil
}
