package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-nodevis/internal/logging/logtest"
	"github.com/goliatone/go-nodevis/pkg/graph"
)

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "nodevis.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesModule(t *testing.T) {
	rec := logtest.New()

	logger := ModuleLogger(rec, toggleModule)
	logger.Info("toggle.applied")

	if names := rec.Names(); len(names) != 1 || names[0] != toggleModule {
		t.Fatalf("expected module %s, got %v", toggleModule, names)
	}
	entry, ok := rec.Find("toggle.applied")
	if !ok {
		t.Fatalf("expected entry to be recorded")
	}
	if entry.Fields["module"] != toggleModule {
		t.Fatalf("expected module field %s, got %v", toggleModule, entry.Fields["module"])
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := logtest.New()
	_ = ModuleLogger(rec, "")
	if names := rec.Names(); len(names) != 1 || names[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, names)
	}
}

func TestNamedModuleLoggers(t *testing.T) {
	cases := map[string]func(*logtest.Recorder){
		bindingModule:     func(r *logtest.Recorder) { BindingLogger(r) },
		preferencesModule: func(r *logtest.Recorder) { PreferencesLogger(r) },
		overridesModule:   func(r *logtest.Recorder) { OverridesLogger(r) },
		rulesModule:       func(r *logtest.Recorder) { RulesLogger(r) },
	}
	for module, build := range cases {
		rec := logtest.New()
		build(rec)
		if names := rec.Names(); len(names) != 1 || names[0] != module {
			t.Fatalf("expected %s, got %v", module, names)
		}
	}
}

func TestWithNodeAddsNodeFields(t *testing.T) {
	rec := logtest.New()
	g := graph.New()
	node := g.Add(graph.NewNode("ClownSampler", nil, nil))

	WithWidget(WithNode(rec, node), "alpha").Debug("probe")

	entry, _ := rec.Find("probe")
	if entry.Fields[fieldNodeID] != int64(node.ID()) {
		t.Fatalf("expected node id field, got %v", entry.Fields)
	}
	if entry.Fields[fieldNodeType] != "ClownSampler" || entry.Fields[fieldWidgetName] != "alpha" {
		t.Fatalf("unexpected fields %v", entry.Fields)
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})

	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	fields["a"] = 99
	if ContextFields(ctx)["a"] != 1 {
		t.Fatalf("expected ContextFields to return a copy")
	}
}
