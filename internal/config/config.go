package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Data          DataConfig     `toml:"data"`
	Schedule      ScheduleConfig `toml:"schedule"`
	Load          LoadConfig     `toml:"load"`
	API           APIConfig      `toml:"api"`
	Database      DatabaseConfig `toml:"database"`
	Notifications NotifyConfig   `toml:"notifications"`
	Logging       LoggingConfig  `toml:"logging"`
}

type DataConfig struct {
	Dir     string `toml:"dir"`
	Pattern string `toml:"pattern"`
	// Prefix names files written by `vocseed sample`.
	Prefix string `toml:"prefix"`
}

type ScheduleConfig struct {
	Start string `toml:"start"` // YYYY-MM-DD or natural language
	End   string `toml:"end"`
	Seed  uint64 `toml:"seed"` // 0 seeds from the clock
}

type LoadConfig struct {
	Target   string `toml:"target"` // "api" or "db"
	DelayMS  int    `toml:"delay_ms"`
	MaxFiles int    `toml:"max_files"`
}

type APIConfig struct {
	BaseURL  string `toml:"base_url"`
	Endpoint string `toml:"endpoint"` // "save-conversation" or "enhanced-classify"
	PushURL  string `toml:"push_url"` // Prometheus Pushgateway, optional
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Dir:     filepath.Join("data", "01.원천데이터", "TS_하나카드"),
			Pattern: "*.json",
			Prefix:  "sample",
		},
		Schedule: ScheduleConfig{
			Start: "2025-08-01",
			End:   "2025-09-12",
		},
		Load: LoadConfig{
			Target:  "api",
			DelayMS: 100,
		},
		API: APIConfig{
			BaseURL:  "http://localhost:3001/api",
			Endpoint: "save-conversation",
		},
		Notifications: NotifyConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vocseed"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DBPath returns the configured database path, defaulting to vocseed.db in
// the config directory.
func (c *Config) DBPath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vocseed.db"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path over the defaults. A missing file is
// not an error.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VOCSEED_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("VOCSEED_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("VOCSEED_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("VOCSEED_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// WriteDefault writes the default config to path unless a file is there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	out, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

// Set updates one "section.key" value in the file at path using a
// read-modify-write so other settings are preserved. The value is stored
// as a bool or integer when it parses as one.
func Set(path, key, value string) error {
	section, name, ok := strings.Cut(key, ".")
	if !ok || section == "" || name == "" {
		return fmt.Errorf("key %q must look like section.name", key)
	}

	cfg := make(map[string]any)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	sec, ok := cfg[section].(map[string]any)
	if !ok {
		sec = make(map[string]any)
	}
	sec[name] = typedValue(value)
	cfg[section] = sec

	// Reject values the typed config cannot hold before touching the file.
	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	check := DefaultConfig()
	if err := toml.Unmarshal(out, &check); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

func typedValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}
