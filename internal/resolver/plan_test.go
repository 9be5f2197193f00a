package resolver

import (
	"testing"

	"github.com/goliatone/go-nodevis/internal/rules"
)

func planFor(decisions []Decision, widget string) (Decision, bool) {
	for _, decision := range decisions {
		if decision.Widget == widget {
			return decision, true
		}
	}
	return Decision{}, false
}

func TestPlanOverrideBeatsDefault(t *testing.T) {
	_, node := newSampler(t, "fractal")
	toggleables := []rules.ToggleableWidget{{WidgetName: "extra_options", DefaultHidden: false, SettingKey: "hide.extra"}}
	globalHidden := false
	override := true

	tiers := Tiers{
		Toggleables: toggleables,
		Override: func(widget string) (bool, bool) {
			return override, widget == "extra_options"
		},
		DefaultHidden: func(rules.ToggleableWidget) (bool, bool) {
			return globalHidden, true
		},
	}

	decision, ok := planFor(Plan(node, nil, tiers), "extra_options")
	if !ok || decision.Show || decision.Source != SourceOverride {
		t.Fatalf("expected override to hide extra_options, got %+v", decision)
	}

	globalHidden = true
	override = false
	decision, _ = planFor(Plan(node, nil, tiers), "extra_options")
	if !decision.Show || decision.Source != SourceOverride {
		t.Fatalf("expected override to keep extra_options shown despite default, got %+v", decision)
	}

	tiers.Override = nil
	decision, _ = planFor(Plan(node, nil, tiers), "extra_options")
	if decision.Show || decision.Source != SourceDefault {
		t.Fatalf("expected default to apply without override, got %+v", decision)
	}
}

func TestPlanRuleBeatsDefaultAndKeepsWidgetOrder(t *testing.T) {
	_, node := newSampler(t, "fractal")
	ruleDecisions := Resolve(node, rules.SamplerConfig())
	ruleDecisions["extra_options"] = true

	plan := Plan(node, ruleDecisions, Tiers{
		Toggleables: []rules.ToggleableWidget{{WidgetName: "extra_options", DefaultHidden: true}},
	})

	want := []string{"alpha", "k", "latent_guide_weight", "guide_mode", "extra_options"}
	if len(plan) != len(want) {
		t.Fatalf("expected %d decisions, got %+v", len(want), plan)
	}
	for i, name := range want {
		if plan[i].Widget != name {
			t.Fatalf("decision %d: expected %s, got %s", i, name, plan[i].Widget)
		}
	}
	last := plan[len(plan)-1]
	if !last.Show || last.Source != SourceRule {
		t.Fatalf("expected rule to beat default for extra_options, got %+v", last)
	}
	if _, ok := planFor(plan, "alpha_sde"); ok {
		t.Fatalf("expected widgets missing from the node to be skipped")
	}
}

func TestPlanFallsBackToDeclaredDefault(t *testing.T) {
	_, node := newSampler(t, "gaussian")
	plan := Plan(node, nil, Tiers{
		Toggleables: []rules.ToggleableWidget{{WidgetName: "extra_options", DefaultHidden: true}},
		DefaultHidden: func(rules.ToggleableWidget) (bool, bool) {
			return false, false
		},
	})
	decision, ok := planFor(plan, "extra_options")
	if !ok || decision.Show {
		t.Fatalf("expected declared default to hide extra_options, got %+v", decision)
	}
	if decision.Source.String() != "default" {
		t.Fatalf("unexpected source label %q", decision.Source)
	}
}
