package runtimeconfig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrRuleSourceRequired = errors.New("nodevis config: builtin rules or at least one rule file is required")
var ErrRuleFilePathEmpty = errors.New("nodevis config: rule file path is empty")

// ErrRemoteEndpointInvalid is returned for preference endpoints that are not http(s) URLs.
var ErrRemoteEndpointInvalid = errors.New("nodevis config: preference endpoint must be an http(s) URL")
var ErrRemoteTimeoutInvalid = errors.New("nodevis config: preference timeout must be positive")

// ErrStorageRequired ensures persistence flags are backed by a database.
var ErrStorageRequired = errors.New("nodevis config: storage driver and dsn are required when persistence is enabled")
var ErrStorageDriverUnknown = errors.New("nodevis config: storage driver is invalid")

// ErrCacheRequiresPersistence keeps the override cache behind the persisted store.
var ErrCacheRequiresPersistence = errors.New("nodevis config: override cache requires override persistence")
var ErrCacheTTLInvalid = errors.New("nodevis config: cache ttl must be positive")

var ErrLoggingProviderRequired = errors.New("nodevis config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("nodevis config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("nodevis config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("nodevis config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the visibility module.
type Config struct {
	// Enabled turns the whole extension on. A disabled module attaches to no node.
	Enabled bool `yaml:"enabled"`
	// HidingEnabled seeds the kill switch preference. When false every managed
	// widget renders in its original kind.
	HidingEnabled bool              `yaml:"hiding_enabled"`
	Rules         RulesConfig       `yaml:"rules"`
	Preferences   PreferencesConfig `yaml:"preferences"`
	Overrides     OverridesConfig   `yaml:"overrides"`
	Storage       StorageConfig     `yaml:"storage"`
	Cache         CacheConfig       `yaml:"cache"`
	Features      Features          `yaml:"features"`
	Logging       LoggingConfig     `yaml:"logging"`
}

// RulesConfig selects the rule sources loaded at startup.
type RulesConfig struct {
	Builtin bool     `yaml:"builtin"`
	Files   []string `yaml:"files"`
}

// PreferencesConfig controls preference storage and the remote sink.
type PreferencesConfig struct {
	// Endpoint receives remote preference updates. Empty disables the sink.
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	Persist  bool          `yaml:"persist"`
}

// OverridesConfig controls per-node override storage.
type OverridesConfig struct {
	// Persist keeps overrides in the database instead of session memory.
	Persist bool `yaml:"persist"`
}

// StorageConfig identifies the database used by persisted repositories.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CacheConfig captures cache behaviour for persisted overrides.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// Features toggles optional functionality.
type Features struct {
	Logger bool `yaml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the session-only defaults: builtin sampler rules,
// hiding on, in-memory overrides and preferences, console logging.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		HidingEnabled: true,
		Rules: RulesConfig{
			Builtin: true,
		},
		Preferences: PreferencesConfig{
			Timeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			Driver: "sqlite3",
		},
		Cache: CacheConfig{
			TTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !cfg.Rules.Builtin && len(cfg.Rules.Files) == 0 {
		return ErrRuleSourceRequired
	}
	for i, path := range cfg.Rules.Files {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%w: index %d", ErrRuleFilePathEmpty, i)
		}
	}

	if endpoint := strings.TrimSpace(cfg.Preferences.Endpoint); endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			return fmt.Errorf("%w: %s", ErrRemoteEndpointInvalid, endpoint)
		}
		if cfg.Preferences.Timeout <= 0 {
			return ErrRemoteTimeoutInvalid
		}
	}

	if cfg.Preferences.Persist || cfg.Overrides.Persist {
		driver := NormalizeDriver(cfg.Storage.Driver)
		if driver == "" || strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageRequired
		}
		if !isSupportedDriver(driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
	}

	if cfg.Cache.Enabled {
		if !cfg.Overrides.Persist {
			return ErrCacheRequiresPersistence
		}
		if cfg.Cache.TTL <= 0 {
			return ErrCacheTTLInvalid
		}
	}

	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// Load reads a YAML config file layered over DefaultConfig and validates it.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("nodevis config: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses YAML from r over DefaultConfig and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("nodevis config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NormalizeDriver maps driver aliases to the database/sql driver name.
func NormalizeDriver(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "sqlite":
		return "sqlite3"
	case "postgresql", "pg":
		return "postgres"
	default:
		return d
	}
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite3", "postgres":
		return true
	default:
		return false
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
