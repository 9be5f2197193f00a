// Package rules holds the static visibility configuration for managed node
// types: value rules, connection rules and the globally toggleable widgets.
package rules

import (
	"reflect"
	"slices"
)

// ValueRule shows TargetWidgets iff any controlling widget currently holds one
// of TriggerValues.
type ValueRule struct {
	ControllingWidgets []string `yaml:"controlling_widgets" json:"controlling_widgets"`
	TriggerValues      []any    `yaml:"trigger_values" json:"trigger_values"`
	TargetWidgets      []string `yaml:"target_widgets" json:"target_widgets"`
}

// Triggers reports whether value is one of the rule's trigger values. Numeric
// kinds compare by value, so a trigger of 1 matches a widget holding 1.0.
func (r ValueRule) Triggers(value any) bool {
	value = normalize(value)
	for _, trigger := range r.TriggerValues {
		if reflect.DeepEqual(normalize(trigger), value) {
			return true
		}
	}
	return false
}

// ConnectionRule shows TargetWidgets iff any of ControllingInputs is connected.
type ConnectionRule struct {
	ControllingInputs []string `yaml:"controlling_inputs" json:"controlling_inputs"`
	TargetWidgets     []string `yaml:"target_widgets" json:"target_widgets"`
}

// Controls reports whether input belongs to the rule's controlling group.
func (r ConnectionRule) Controls(input string) bool {
	return slices.Contains(r.ControllingInputs, input)
}

// ToggleableWidget declares a widget whose default visibility is a global
// preference, overridable per node instance.
type ToggleableWidget struct {
	WidgetName    string `yaml:"widget" json:"widget"`
	DefaultHidden bool   `yaml:"default_hidden" json:"default_hidden"`
	// SettingKey names the preference holding the hide-by-default value.
	SettingKey string `yaml:"setting_key" json:"setting_key"`
	Label      string `yaml:"label" json:"label"`
}

// NodeTypeConfig is the ordered rule set for one or more node types. When two
// rules target the same widget the later rule wins.
type NodeTypeConfig struct {
	ValueRules      []ValueRule      `yaml:"value_rules" json:"value_rules"`
	ConnectionRules []ConnectionRule `yaml:"connection_rules" json:"connection_rules"`
}

// ControllingWidgets returns the distinct widget names read by value rules,
// in first-seen order.
func (c NodeTypeConfig) ControllingWidgets() []string {
	var out []string
	for _, rule := range c.ValueRules {
		out = appendUnique(out, rule.ControllingWidgets...)
	}
	return out
}

// ControllingInputs returns the distinct input names read by connection rules.
func (c NodeTypeConfig) ControllingInputs() []string {
	var out []string
	for _, rule := range c.ConnectionRules {
		out = appendUnique(out, rule.ControllingInputs...)
	}
	return out
}

// RulesForInput returns the connection rules whose group contains input.
func (c NodeTypeConfig) RulesForInput(input string) []ConnectionRule {
	var out []ConnectionRule
	for _, rule := range c.ConnectionRules {
		if rule.Controls(input) {
			out = append(out, rule)
		}
	}
	return out
}

// Targets returns every widget name any rule can show or hide.
func (c NodeTypeConfig) Targets() []string {
	var out []string
	for _, rule := range c.ValueRules {
		out = appendUnique(out, rule.TargetWidgets...)
	}
	for _, rule := range c.ConnectionRules {
		out = appendUnique(out, rule.TargetWidgets...)
	}
	return out
}

func appendUnique(dst []string, names ...string) []string {
	for _, name := range names {
		if !slices.Contains(dst, name) {
			dst = append(dst, name)
		}
	}
	return dst
}

func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}
