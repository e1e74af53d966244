package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConfig(t *testing.T) {
	p := writeFile(t, t.TempDir(), "gemorder.yaml", `
rounds: 50
codec: json
log:
  format: json
  level: debug
store:
  backend: s3
  s3:
    bucket: decks
    region: eu-central-1
    ddb_table: gem-commits
resources:
  max_concurrent_loads: 4
`)

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50, cfg.Rounds)
	assert.Equal(t, 2, cfg.MinimumViable, "unset fields keep defaults")
	assert.Equal(t, "json", cfg.Codec)
	assert.Equal(t, "gem-commits", cfg.Store.S3.DDBTable)
	assert.Equal(t, int64(4), cfg.Resources.MaxConcurrentLoads)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"ZeroRounds", func(c *Config) { c.Rounds = 0 }},
		{"UnknownBackend", func(c *Config) { c.Store.Backend = "ftp" }},
		{"UnknownCodec", func(c *Config) { c.Codec = "xml" }},
		{"S3WithoutSection", func(c *Config) { c.Store.Backend = "s3" }},
		{"MinioWithoutSection", func(c *Config) { c.Store.Backend = "minio" }},
		{"S3WithoutBucket", func(c *Config) {
			c.Store.Backend = "s3"
			c.Store.S3 = &S3Config{}
		}},
		{"LocalWithoutPath", func(c *Config) { c.Store.Path = "" }},
		{"NegativeMemoryLimit", func(c *Config) { c.Resources.MemoryLimitBytes = -1 }},
		{"BadLogLevel", func(c *Config) { c.Log.Level = "loud" }},
		{"BadCompression", func(c *Config) { c.Compression = "gzip" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLogConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Format: "json", Level: "warn"}.Logger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
