package resolver

import (
	"github.com/goliatone/go-nodevis/internal/rules"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// Tiers supplies the sticky precedence tiers for toggleable widgets.
type Tiers struct {
	// Toggleables lists the globally toggleable widgets.
	Toggleables []rules.ToggleableWidget
	// Override returns the per-instance choice for a widget, if any.
	Override func(widget string) (hidden bool, ok bool)
	// DefaultHidden returns the global hide-by-default value for a
	// toggleable widget, if any.
	DefaultHidden func(spec rules.ToggleableWidget) (hidden bool, ok bool)
}

// Plan merges rule decisions with overrides and defaults into one decision
// per affected widget, in node widget order. Overrides win over rules and
// defaults; rules win over defaults. Widgets missing from the node are
// skipped.
func Plan(node interfaces.Node, ruleDecisions Decisions, tiers Tiers) []Decision {
	if node == nil {
		return nil
	}
	toggleable := make(map[string]rules.ToggleableWidget, len(tiers.Toggleables))
	for _, spec := range tiers.Toggleables {
		toggleable[spec.WidgetName] = spec
	}

	var out []Decision
	for _, widget := range node.Widgets() {
		if widget == nil {
			continue
		}
		name := widget.Name()
		if decision, ok := decide(name, ruleDecisions, toggleable, tiers); ok {
			out = append(out, decision)
		}
	}
	return out
}

func decide(name string, ruleDecisions Decisions, toggleable map[string]rules.ToggleableWidget, tiers Tiers) (Decision, bool) {
	spec, isToggleable := toggleable[name]
	if isToggleable && tiers.Override != nil {
		if hidden, ok := tiers.Override(name); ok {
			return Decision{Widget: name, Show: !hidden, Source: SourceOverride}, true
		}
	}
	if show, ok := ruleDecisions[name]; ok {
		return Decision{Widget: name, Show: show, Source: SourceRule}, true
	}
	if !isToggleable {
		return Decision{}, false
	}
	hidden := spec.DefaultHidden
	if tiers.DefaultHidden != nil {
		if value, ok := tiers.DefaultHidden(spec); ok {
			hidden = value
		}
	}
	return Decision{Widget: name, Show: !hidden, Source: SourceDefault}, true
}
