package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-nodevis/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if !cfg.HidingEnabled || !cfg.Rules.Builtin {
		t.Fatalf("expected hiding and builtin rules on by default, got %+v", cfg)
	}
	if cfg.Overrides.Persist {
		t.Fatalf("expected overrides to be session-only by default")
	}
}

func TestConfigValidate_RequiresRuleSource(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Rules.Builtin = false

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrRuleSourceRequired) {
		t.Fatalf("expected ErrRuleSourceRequired, got %v", err)
	}

	cfg.Rules.Files = []string{"rules.yaml", " "}
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrRuleFilePathEmpty) {
		t.Fatalf("expected ErrRuleFilePathEmpty, got %v", err)
	}
}

func TestConfigValidate_RemoteEndpoint(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Preferences.Endpoint = "ftp://example.com/settings"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrRemoteEndpointInvalid) {
		t.Fatalf("expected ErrRemoteEndpointInvalid, got %v", err)
	}

	cfg.Preferences.Endpoint = "http://127.0.0.1:8188/nodevis/settings"
	cfg.Preferences.Timeout = 0
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrRemoteTimeoutInvalid) {
		t.Fatalf("expected ErrRemoteTimeoutInvalid, got %v", err)
	}
}

func TestConfigValidate_PersistenceRequiresStorage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Overrides.Persist = true

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageRequired) {
		t.Fatalf("expected ErrStorageRequired, got %v", err)
	}

	cfg.Storage = runtimeconfig.StorageConfig{Driver: "mysql", DSN: "root@/nodevis"}
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}

	cfg.Storage = runtimeconfig.StorageConfig{Driver: "postgresql", DSN: "postgres://localhost/nodevis"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected postgres alias to validate, got %v", err)
	}
}

func TestConfigValidate_CacheRequiresPersistedOverrides(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheRequiresPersistence) {
		t.Fatalf("expected ErrCacheRequiresPersistence, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestDecodeLayersOverDefaults(t *testing.T) {
	const doc = `
hiding_enabled: false
preferences:
  endpoint: http://127.0.0.1:8188/nodevis/settings
  timeout: 2s
logging:
  level: debug
`
	cfg, err := runtimeconfig.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if cfg.HidingEnabled {
		t.Fatalf("expected hiding_enabled to be overridden")
	}
	if !cfg.Enabled || !cfg.Rules.Builtin {
		t.Fatalf("expected defaults to survive, got %+v", cfg)
	}
	if cfg.Preferences.Timeout != 2*time.Second {
		t.Fatalf("expected 2s timeout, got %v", cfg.Preferences.Timeout)
	}
	if cfg.Logging.Provider != "console" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	if _, err := runtimeconfig.Decode(strings.NewReader("hide_all: true\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodevis.yaml")
	if err := os.WriteFile(path, []byte("enabled: false\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Enabled {
		t.Fatalf("expected enabled=false from file")
	}

	if _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
