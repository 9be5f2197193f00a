package di

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-nodevis/internal/logging/gologger"
	"github.com/goliatone/go-nodevis/internal/logging/logtest"
	"github.com/goliatone/go-nodevis/internal/overrides"
	"github.com/goliatone/go-nodevis/internal/preferences"
	"github.com/goliatone/go-nodevis/internal/rules"
	"github.com/goliatone/go-nodevis/internal/runtimeconfig"
	"github.com/goliatone/go-nodevis/pkg/graph"
)

func sqliteDSN(name string) string {
	return fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, time.Now().UnixNano())
}

func TestNewContainerDefaults(t *testing.T) {
	rec := logtest.New()
	c, err := NewContainer(runtimeconfig.DefaultConfig(), WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if !c.Registry().Frozen() {
		t.Fatalf("expected frozen registry")
	}
	if !c.Registry().Manages("ClownsharKSampler_Beta") {
		t.Fatalf("expected builtin sampler rules")
	}
	if _, ok := c.Overrides().(*overrides.MemoryRepository); !ok {
		t.Fatalf("expected memory overrides by default, got %T", c.Overrides())
	}
	if c.DB() != nil {
		t.Fatalf("expected no database without persistence")
	}
	if !c.Preferences().HidingEnabled() {
		t.Fatalf("expected hiding enabled by default")
	}
	if c.Commands() == nil || c.Commands().ToggleWidget == nil {
		t.Fatalf("expected command handlers")
	}
	entry, ok := rec.Find("container.configured")
	if !ok {
		t.Fatalf("expected container.configured log, got %#v", rec.Entries())
	}
	if entry.Fields["module"] != "nodevis" {
		t.Fatalf("expected nodevis module field, got %#v", entry.Fields)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Overrides.Persist = true
	cfg.Storage.DSN = ""
	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrStorageRequired) {
		t.Fatalf("expected ErrStorageRequired, got %v", err)
	}
}

func TestNewContainerSeedsKillSwitchFromConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.HidingEnabled = false
	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.Preferences().HidingEnabled() {
		t.Fatalf("expected hiding disabled from config")
	}
}

func TestNewContainerPersistsOverridesWithCache(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Overrides.Persist = true
	cfg.Preferences.Persist = true
	cfg.Storage.DSN = sqliteDSN("container_persist")
	cfg.Cache.Enabled = true

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if _, ok := c.Overrides().(*overrides.BunRepository); !ok {
		t.Fatalf("expected bun overrides, got %T", c.Overrides())
	}
	if c.cacheService == nil || c.keySerializer == nil {
		t.Fatalf("expected cache service to be configured")
	}

	g := graph.New()
	c.Binder().AutoAttach(&g.NodeAdded)
	node := g.Add(graph.NewNode("ClownSampler_Beta",
		[]*graph.Widget{graph.NewWidget(rules.WidgetExtraOptions, "")},
		nil,
	))
	ctx := context.Background()
	if _, err := c.Binder().ToggleWidget(ctx, node.ID(), rules.WidgetExtraOptions); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	entries, err := c.Overrides().ListByNode(ctx, node.ID())
	if err != nil {
		t.Fatalf("list overrides: %v", err)
	}
	if len(entries) != 1 || entries[0].Hidden {
		t.Fatalf("expected one persisted shown override, got %#v", entries)
	}

	if err := c.Preferences().Set(ctx, preferences.KeyHideWidgets, false); err != nil {
		t.Fatalf("set preference: %v", err)
	}
	var stored preferences.Record
	if err := c.DB().NewSelect().Model(&stored).Where("key = ?", preferences.KeyHideWidgets).Scan(ctx); err != nil {
		t.Fatalf("select preference: %v", err)
	}
	if stored.Value {
		t.Fatalf("expected persisted false")
	}
}

func TestNewContainerLoadsRuleFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	body := []byte(`node_types:
  - names: [CustomSampler]
    value_rules:
      - controlling_widgets: [mode]
        trigger_values: [advanced]
        target_widgets: [detail]
toggleables:
  - widget: debug_info
    default_hidden: true
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.Rules.Builtin = false
	cfg.Rules.Files = []string{path}
	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if !c.Registry().Manages("CustomSampler") || c.Registry().Manages("ClownSampler_Beta") {
		t.Fatalf("unexpected node types %v", c.Registry().NodeTypes())
	}
	if _, ok := c.Preferences().Lookup(rules.SettingKeyPrefix + "debug_info"); !ok {
		t.Fatalf("expected preference for file toggleable")
	}
}

func TestNewContainerFailsOnMissingRuleFile(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Rules.Files = []string{filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := NewContainer(cfg); err == nil {
		t.Fatalf("expected error for missing rule file")
	}
}

func TestNewContainerWiresRemoteSink(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := runtimeconfig.DefaultConfig()
	cfg.Preferences.Endpoint = server.URL
	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if err := c.Preferences().Set(context.Background(), preferences.KeyUpdatedTimestepScaling, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if payload["setting"] != "updatedTimestepScaling" || payload["value"] != true {
		t.Fatalf("unexpected payload %#v", payload)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	provider, ok := c.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", c.LoggerProvider())
	}
	if provider.GetLogger("nodevis.test") == nil {
		t.Fatal("expected logger from go-logger provider")
	}
}

func TestConfigureLoggerProviderDisabled(t *testing.T) {
	c, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.LoggerProvider() != nil {
		t.Fatalf("expected no provider with logger feature off, got %T", c.LoggerProvider())
	}
}
