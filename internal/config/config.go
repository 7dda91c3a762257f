// Package config loads dailywork configuration from YAML, .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/dailywork-go/pkg/dailywork"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/store"
)

// Environment variables that override file values.
const (
	EnvActivated   = "DAILYWORK_ACTIVATED"
	EnvWorkbook    = "DAILYWORK_WORKBOOK"
	EnvTimezone    = "DAILYWORK_TIMEZONE"
	EnvDocsDir     = "DAILYWORK_DOCS_DIR"
	EnvS3Endpoint  = "DAILYWORK_S3_ENDPOINT"
	EnvS3AccessKey = "DAILYWORK_S3_ACCESS_KEY"
	EnvS3SecretKey = "DAILYWORK_S3_SECRET_KEY"
	EnvS3Bucket    = "DAILYWORK_S3_BUCKET"
	EnvLogLevel    = "DAILYWORK_LOG_LEVEL"
)

// Document backends.
const (
	BackendDir = "dir"
	BackendS3  = "s3"
)

// Config holds all dailywork configuration.
type Config struct {
	// Activated must be true before any batch operation runs.
	Activated bool   `yaml:"activated"`
	Workbook  string `yaml:"workbook"`
	// Timezone is an IANA zone name used for every date format.
	Timezone string `yaml:"timezone"`
	Heading  string `yaml:"heading"`

	Sheets    SheetsConfig    `yaml:"sheets"`
	Columns   ColumnsConfig   `yaml:"columns"`
	Documents DocumentsConfig `yaml:"documents"`
	Watch     WatchConfig     `yaml:"watch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SheetsConfig names the workbook sheets.
type SheetsConfig struct {
	StudentWork  string `yaml:"student_work"`
	Archive      string `yaml:"archive"`
	DocsDatabase string `yaml:"docs_database"`
}

// ColumnsConfig holds 1-based column numbers.
type ColumnsConfig struct {
	DocID           int `yaml:"doc_id"`
	Date            int `yaml:"date"`
	Task            int `yaml:"task"`
	Comment         int `yaml:"comment"`
	Response        int `yaml:"response"`
	ArchiveCheckbox int `yaml:"archive_checkbox"`

	DatabaseDocID  int `yaml:"database_doc_id"`
	ActivationDate int `yaml:"activation_date"`
}

// DocumentsConfig selects where student documents live.
type DocumentsConfig struct {
	Backend string   `yaml:"backend"` // dir, s3
	Dir     string   `yaml:"dir"`
	S3      S3Config `yaml:"s3"`
}

// S3Config configures the s3 document backend. Credentials are usually
// supplied through DAILYWORK_S3_* variables rather than the file.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
	JSON  bool   `yaml:"json"`
}

// Default returns the default configuration.
func Default() *Config {
	cols := dailywork.DefaultColumns()
	db := dailywork.DefaultDatabaseColumns()
	return &Config{
		Workbook: "class.xlsx",
		Timezone: "UTC",
		Heading:  "Daily Work",
		Sheets: SheetsConfig{
			StudentWork:  dailywork.StudentWorkSheet,
			Archive:      dailywork.ArchiveSheet,
			DocsDatabase: dailywork.DocsDatabaseSheet,
		},
		Columns: ColumnsConfig{
			DocID:           cols.DocID,
			Date:            cols.Date,
			Task:            cols.Task,
			Comment:         cols.Comment,
			Response:        cols.Response,
			ArchiveCheckbox: cols.ArchiveCheckbox,
			DatabaseDocID:   db.DocID,
			ActivationDate:  db.ActivationDate,
		},
		Documents: DocumentsConfig{
			Backend: BackendDir,
			Dir:     "docs",
		},
		Watch: WatchConfig{
			Debounce: "2s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path. A missing file yields the defaults.
// Variables from a .env file in the working directory and the process
// environment override file values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := strings.TrimSpace(os.Getenv(EnvActivated)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvActivated, err)
		}
		c.Activated = b
	}
	if v := os.Getenv(EnvWorkbook); v != "" {
		c.Workbook = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvDocsDir); v != "" {
		c.Documents.Dir = v
	}
	if v := os.Getenv(EnvS3Endpoint); v != "" {
		c.Documents.S3.Endpoint = v
	}
	if v := os.Getenv(EnvS3AccessKey); v != "" {
		c.Documents.S3.AccessKey = v
	}
	if v := os.Getenv(EnvS3SecretKey); v != "" {
		c.Documents.S3.SecretKey = v
	}
	if v := os.Getenv(EnvS3Bucket); v != "" {
		c.Documents.S3.Bucket = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Workbook) == "" {
		return fmt.Errorf("workbook path is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	cols := map[string]int{
		"doc_id":           c.Columns.DocID,
		"date":             c.Columns.Date,
		"task":             c.Columns.Task,
		"comment":          c.Columns.Comment,
		"response":         c.Columns.Response,
		"archive_checkbox": c.Columns.ArchiveCheckbox,
		"database_doc_id":  c.Columns.DatabaseDocID,
		"activation_date":  c.Columns.ActivationDate,
	}
	for name, col := range cols {
		if col < 1 {
			return fmt.Errorf("invalid column %s: %d", name, col)
		}
	}

	switch c.Documents.Backend {
	case BackendDir:
		if c.Documents.Dir == "" {
			return fmt.Errorf("documents.dir is required for the %s backend", BackendDir)
		}
	case BackendS3:
		if c.Documents.S3.Endpoint == "" || c.Documents.S3.Bucket == "" {
			return fmt.Errorf("documents.s3 endpoint and bucket are required for the %s backend", BackendS3)
		}
	default:
		return fmt.Errorf("invalid documents backend: %s (valid: %s, %s)", c.Documents.Backend, BackendDir, BackendS3)
	}

	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
	}
	return nil
}

// Location returns the configured time zone, or UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DebounceInterval returns the watch debounce as a duration.
func (c *Config) DebounceInterval() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// Options returns the batch options described by the configuration.
func (c *Config) Options() dailywork.Options {
	return dailywork.Options{
		Heading:  c.Heading,
		Location: c.Location(),
		Columns: dailywork.Columns{
			DocID:           c.Columns.DocID,
			Date:            c.Columns.Date,
			Task:            c.Columns.Task,
			Comment:         c.Columns.Comment,
			Response:        c.Columns.Response,
			ArchiveCheckbox: c.Columns.ArchiveCheckbox,
		},
		Database: dailywork.DatabaseColumns{
			DocID:          c.Columns.DatabaseDocID,
			ActivationDate: c.Columns.ActivationDate,
		},
	}
}

// S3 returns the store configuration for the s3 backend.
func (c *Config) S3() store.S3Config {
	s := c.Documents.S3
	return store.S3Config{
		Endpoint:  s.Endpoint,
		Region:    s.Region,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		Bucket:    s.Bucket,
		Prefix:    s.Prefix,
		UseSSL:    s.UseSSL,
	}
}
