package nodevis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-nodevis"
	"github.com/goliatone/go-nodevis/pkg/graph"
)

func newSampler(g *graph.Graph, noiseType string) *graph.Node {
	return g.Add(graph.NewNode("ClownsharKSampler_Beta",
		[]*graph.Widget{
			graph.NewWidget("noise_type", noiseType),
			graph.NewWidget("alpha", -1.0),
			graph.NewWidget("k", 1.0),
			graph.NewWidget("extra_options", ""),
		},
		[]*graph.Input{graph.NewInput("latent_guide", true)},
	))
}

func TestModuleDrivesVisibility(t *testing.T) {
	module, err := nodevis.New(nodevis.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	g := graph.New()
	if !module.AutoAttach(&g.NodeAdded) {
		t.Fatalf("expected auto attach")
	}
	node := newSampler(g, "gaussian")
	if !node.Widget("alpha").Hidden() || !node.Widget("extra_options").Hidden() {
		t.Fatalf("expected alpha and extra_options hidden")
	}

	node.Widget("noise_type").SetValue("fractal")
	if node.Widget("alpha").Hidden() {
		t.Fatalf("expected alpha shown for fractal noise")
	}

	hidden, err := module.ToggleWidget(context.Background(), node.ID(), "extra_options")
	if err != nil || hidden {
		t.Fatalf("expected extra_options shown by override, got %v (%v)", hidden, err)
	}

	if err := module.SetPreference(context.Background(), nodevis.PreferenceHideWidgets, false); err != nil {
		t.Fatalf("set preference: %v", err)
	}
	if module.HidingEnabled() || module.Preference(nodevis.PreferenceHideWidgets) {
		t.Fatalf("expected kill switch off")
	}
	node.Widget("noise_type").SetValue("gaussian")
	if node.Widget("alpha").Hidden() {
		t.Fatalf("expected nothing hidden with the kill switch off")
	}
}

func TestDisabledModuleAttachesNothing(t *testing.T) {
	cfg := nodevis.DefaultConfig()
	cfg.Enabled = false
	module, err := nodevis.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	g := graph.New()
	if module.AutoAttach(&g.NodeAdded) {
		t.Fatalf("disabled module must not register hooks")
	}
	node := newSampler(g, "gaussian")
	if module.Attach(node) || node.Widget("alpha").Hidden() {
		t.Fatalf("disabled module must not touch nodes")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := nodevis.DefaultConfig()
	cfg.Rules.Builtin = false
	if _, err := nodevis.New(cfg); !errors.Is(err, nodevis.ErrRuleSourceRequired) {
		t.Fatalf("expected ErrRuleSourceRequired, got %v", err)
	}
}

func TestPreferencesListsBuiltinsInOrder(t *testing.T) {
	module, err := nodevis.New(nodevis.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	prefs := module.Preferences()
	if len(prefs) != 5 {
		t.Fatalf("expected 5 builtin preferences, got %d", len(prefs))
	}
	if prefs[0].Key != nodevis.PreferenceHideWidgets || !prefs[0].Value {
		t.Fatalf("expected kill switch first and on, got %#v", prefs[0])
	}
	if prefs[1].Key != nodevis.PreferenceUpdatedTimestepScaling || !prefs[1].Remote {
		t.Fatalf("expected remote timestep setting second, got %#v", prefs[1])
	}
}
