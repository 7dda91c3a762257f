package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/dailywork-go/pkg/dailywork"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dailywork.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Activated)
	assert.Equal(t, dailywork.DefaultOptions().Columns, cfg.Options().Columns)
	assert.Equal(t, dailywork.DefaultOptions().Database, cfg.Options().Database)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
activated: true
workbook: period3.xlsx
timezone: America/New_York
columns:
  comment: 7
documents:
  backend: s3
  s3:
    endpoint: localhost:9000
    bucket: docs
    prefix: period3/
watch:
  debounce: 500ms
logging:
  level: debug
  file: dailywork.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Activated)
	assert.Equal(t, "period3.xlsx", cfg.Workbook)
	assert.Equal(t, 7, cfg.Columns.Comment)
	assert.Equal(t, 2, cfg.Columns.DocID, "unset columns keep defaults")
	assert.Equal(t, BackendS3, cfg.Documents.Backend)
	assert.Equal(t, "period3/", cfg.S3().Prefix)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceInterval())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "America/New_York", cfg.Location().String())
	assert.Equal(t, dailywork.DefaultOptions().Heading, cfg.Options().Heading)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvActivated, "true")
	t.Setenv(EnvWorkbook, "env.xlsx")
	t.Setenv(EnvS3SecretKey, "secret")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(writeConfig(t, "workbook: file.xlsx\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Activated)
	assert.Equal(t, "env.xlsx", cfg.Workbook)
	assert.Equal(t, "secret", cfg.Documents.S3.SecretKey)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvOverrideInvalidBool(t *testing.T) {
	t.Setenv(EnvActivated, "maybe")
	_, err := Load(writeConfig(t, ""))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty workbook", func(c *Config) { c.Workbook = "" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"zero column", func(c *Config) { c.Columns.Task = 0 }},
		{"unknown backend", func(c *Config) { c.Documents.Backend = "ftp" }},
		{"dir backend without dir", func(c *Config) { c.Documents.Dir = "" }},
		{"s3 backend without bucket", func(c *Config) {
			c.Documents.Backend = BackendS3
			c.Documents.S3.Endpoint = "localhost:9000"
		}},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "activated: [oops\n"))
	assert.Error(t, err)
}
