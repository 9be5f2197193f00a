package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

const sampleRuleFile = `
node_types:
  - names: [CustomSampler, CustomSamplerAdvanced]
    value_rules:
      - controlling_widgets: [scheduler]
        trigger_values: [beta57, 3]
        target_widgets: [beta_a]
    connection_rules:
      - controlling_inputs: [mask]
        target_widgets: [mask_strength]
toggleables:
  - widget: seed_control
    default_hidden: true
    setting_key: custom.hide.seed
    label: Hide seed control
`

func TestDecodeRuleFile(t *testing.T) {
	file, err := Decode(strings.NewReader(sampleRuleFile))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	r := NewRegistry()
	if err := file.Apply(r); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	cfg, ok := r.Lookup("CustomSamplerAdvanced")
	if !ok {
		t.Fatalf("expected CustomSamplerAdvanced to be managed")
	}
	if len(cfg.ValueRules) != 1 || !cfg.ValueRules[0].Triggers(3.0) {
		t.Fatalf("expected numeric trigger to match, got %+v", cfg.ValueRules)
	}
	if got := cfg.ConnectionRules[0].TargetWidgets; len(got) != 1 || got[0] != "mask_strength" {
		t.Fatalf("unexpected connection targets %v", got)
	}
	spec, ok := r.Toggleable("seed_control")
	if !ok || spec.SettingKey != "custom.hide.seed" || !spec.DefaultHidden {
		t.Fatalf("unexpected toggleable %+v", spec)
	}
}

func TestDecodeRejectsInvalidRules(t *testing.T) {
	const doc = `
node_types:
  - names: [Broken]
    value_rules:
      - controlling_widgets: [mode]
        target_widgets: [" "]
  - names: []
    connection_rules:
      - controlling_inputs: [mask]
        target_widgets: [x]
  - names: [Empty]
toggleables:
  - default_hidden: true
`
	_, err := Decode(strings.NewReader(doc))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) || typed.TextCode != ruleFileInvalidCode {
		t.Fatalf("expected text code %s, got %v", ruleFileInvalidCode, err)
	}
	if len(typed.ValidationErrors) == 0 {
		t.Fatalf("expected field level validation errors")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("node_types:\n  - names: [A]\n    hidden_rules: []\n"))
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Fatalf("expected bad input category, got %v", err)
	}
}

func TestLoadIntoOverridesEarlierBindings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	const override = `
node_types:
  - names: [ClownSampler_Beta]
    value_rules:
      - controlling_widgets: [noise_type]
        trigger_values: [brownian]
        target_widgets: [alpha]
`
	if err := os.WriteFile(path, []byte(override), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	r := Builtin()
	if err := LoadInto(r, path); err != nil {
		t.Fatalf("LoadInto() error = %v", err)
	}
	cfg, _ := r.Lookup("ClownSampler_Beta")
	if len(cfg.ValueRules) != 1 || !cfg.ValueRules[0].Triggers("brownian") {
		t.Fatalf("expected file to replace builtin binding, got %+v", cfg)
	}
	other, _ := r.Lookup("ClownsharKSampler_Beta")
	if len(other.ValueRules) != 2 {
		t.Fatalf("expected other builtin types to keep their config")
	}

	if err := LoadInto(r, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}
