// Package config loads and saves ledgr settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const (
	// DefaultBaseURL is the API server used when none is configured.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultPageSize is the transaction list page size.
	DefaultPageSize = 20
	// MaxPageSize matches the server's upper bound on `limit`.
	MaxPageSize = 100

	envPrefix = "LEDGR"
)

// Config holds all ledgr configuration.
type Config struct {
	API          APIConfig          `toml:"api"`
	Transactions TransactionsConfig `toml:"transactions"`
	Appearance   AppearanceConfig   `toml:"appearance"`
	Log          LogConfig          `toml:"log"`
	Store        StoreConfig        `toml:"store"`
}

// APIConfig holds settings for the finance API server.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	// TimeoutSec bounds each request. Zero disables the timeout.
	TimeoutSec int `toml:"timeout_sec"`
}

// TransactionsConfig holds transaction list settings.
type TransactionsConfig struct {
	PageSize int `toml:"page_size"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// StoreConfig locates the local session database.
type StoreConfig struct {
	Path string `toml:"path,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Transactions: TransactionsConfig{
			PageSize: DefaultPageSize,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Timeout returns the per-request timeout, zero when disabled.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// PageSize returns the configured page size clamped to [1, MaxPageSize].
func (c Config) PageSize() int {
	switch {
	case c.Transactions.PageSize <= 0:
		return DefaultPageSize
	case c.Transactions.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return c.Transactions.PageSize
	}
}

// DBPath returns the session database path.
func (c Config) DBPath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(ConfigDir(), "ledgr.db")
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ledgr")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ledgr")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogPath returns the TUI log file path.
func LogPath() string {
	return filepath.Join(ConfigDir(), "ledgr.log")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-supplied config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Keys understood by Resolve. Flags bound to v under these keys win over
// LEDGR_* environment variables, which win over the file.
const (
	KeyBaseURL  = "api.base_url"
	KeyTimeout  = "api.timeout_sec"
	KeyPageSize = "transactions.page_size"
	KeyTheme    = "appearance.theme"
	KeyLogLevel = "log.level"
	KeyDBPath   = "store.path"
)

// NewViper returns a viper instance reading LEDGR_* environment variables,
// e.g. LEDGR_API_BASE_URL for api.base_url.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Resolve layers v (flags and environment) over the file config.
func Resolve(file Config, v *viper.Viper) Config {
	v.SetDefault(KeyBaseURL, file.API.BaseURL)
	v.SetDefault(KeyTimeout, file.API.TimeoutSec)
	v.SetDefault(KeyPageSize, file.Transactions.PageSize)
	v.SetDefault(KeyTheme, file.Appearance.Theme)
	v.SetDefault(KeyLogLevel, file.Log.Level)
	v.SetDefault(KeyDBPath, file.Store.Path)

	cfg := file
	cfg.API.BaseURL = strings.TrimRight(v.GetString(KeyBaseURL), "/")
	cfg.API.TimeoutSec = v.GetInt(KeyTimeout)
	cfg.Transactions.PageSize = v.GetInt(KeyPageSize)
	cfg.Appearance.Theme = v.GetString(KeyTheme)
	cfg.Log.Level = v.GetString(KeyLogLevel)
	cfg.Store.Path = v.GetString(KeyDBPath)

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	return cfg
}
