// Package config loads the security desk configuration from
// ~/.outpass/config.yaml, a local .env file and OUTPASS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvAPIBaseURL = "OUTPASS_API_BASE_URL"
	EnvAPIToken   = "OUTPASS_API_TOKEN"
	EnvOfficer    = "OUTPASS_OFFICER"
	EnvLogLevel   = "OUTPASS_LOG_LEVEL"
)

// Config represents the desk configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Poll     PollConfig     `yaml:"poll"`
	Journal  JournalConfig  `yaml:"journal"`
	Log      LogConfig      `yaml:"log"`
	Officer  string         `yaml:"officer,omitempty"`
	Timezone string         `yaml:"timezone,omitempty"`
	Location *time.Location `yaml:"-"`
}

// APIConfig holds the backend connection settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Token      string        `yaml:"token,omitempty"`
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
}

// PollConfig holds the watch refresh intervals.
type PollConfig struct {
	BoardInterval       time.Duration `yaml:"-"`
	BoardIntervalRaw    string        `yaml:"board_interval"`
	ActivityInterval    time.Duration `yaml:"-"`
	ActivityIntervalRaw string        `yaml:"activity_interval"`
}

// JournalConfig locates the local transition journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "http://localhost:5000",
			Timeout:    10 * time.Second,
			TimeoutRaw: "10s",
		},
		Poll: PollConfig{
			BoardInterval:       30 * time.Second,
			BoardIntervalRaw:    "30s",
			ActivityInterval:    60 * time.Second,
			ActivityIntervalRaw: "60s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Location: time.Local,
	}
}

// DefaultPath returns ~/.outpass/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home directory: %w", err)
	}
	return filepath.Join(home, ".outpass", "config.yaml"), nil
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from a .env file into the process
// environment. Variables already set are left alone; a missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Save writes cfg to path as YAML, creating the directory if needed.
// The file holds the API token, so it is written owner-only.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}

	out := *cfg
	out.API.TimeoutRaw = formatDuration(cfg.API.Timeout, cfg.API.TimeoutRaw)
	out.Poll.BoardIntervalRaw = formatDuration(cfg.Poll.BoardInterval, cfg.Poll.BoardIntervalRaw)
	out.Poll.ActivityIntervalRaw = formatDuration(cfg.Poll.ActivityInterval, cfg.Poll.ActivityIntervalRaw)

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("config: marshal yaml: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvAPIToken); ok && v != "" {
		c.API.Token = v
	}
	if v, ok := os.LookupEnv(EnvOfficer); ok && v != "" {
		c.Officer = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

func (c *Config) validateAndNormalize() error {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL != "" && !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("config: api.base_url must start with http:// or https:// (got %q)", c.API.BaseURL)
	}

	timeout, err := parsePositiveDuration(c.API.TimeoutRaw, 10*time.Second)
	if err != nil {
		return fmt.Errorf("config: api.timeout: %w", err)
	}
	c.API.Timeout = timeout

	board, err := parsePositiveDuration(c.Poll.BoardIntervalRaw, 30*time.Second)
	if err != nil {
		return fmt.Errorf("config: poll.board_interval: %w", err)
	}
	c.Poll.BoardInterval = board

	activity, err := parsePositiveDuration(c.Poll.ActivityIntervalRaw, 60*time.Second)
	if err != nil {
		return fmt.Errorf("config: poll.activity_interval: %w", err)
	}
	c.Poll.ActivityInterval = activity

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	switch c.Log.Format {
	case "":
		c.Log.Format = "console"
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format must be console or json (got %q)", c.Log.Format)
	}

	c.Location = time.Local
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return fmt.Errorf("config: timezone: %w", err)
		}
		c.Location = loc
	}

	return nil
}

func parsePositiveDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive (got %s)", raw)
	}
	return d, nil
}

func formatDuration(d time.Duration, raw string) string {
	if d <= 0 {
		return raw
	}
	return d.String()
}
