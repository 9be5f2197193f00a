// Package resolver computes widget visibility from a node's current state and
// its rule configuration. Every function here is pure: nodes are only read.
package resolver

import (
	"github.com/goliatone/go-nodevis/internal/rules"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// Decisions maps widget names to show (true) or hide (false).
type Decisions map[string]bool

// Source identifies the precedence tier that produced a decision.
type Source int

const (
	SourceRule Source = iota + 1
	SourceDefault
	SourceOverride
)

func (s Source) String() string {
	switch s {
	case SourceRule:
		return "rule"
	case SourceDefault:
		return "default"
	case SourceOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Decision is the effective visibility of one widget.
type Decision struct {
	Widget string
	Show   bool
	Source Source
}

// Resolve evaluates value rules and then connection rules in declaration
// order. A widget targeted by several rules takes the last rule's result.
// Controlling widgets or inputs missing from the node count as false.
func Resolve(node interfaces.Node, cfg rules.NodeTypeConfig) Decisions {
	out := Decisions{}
	if node == nil {
		return out
	}
	for _, rule := range cfg.ValueRules {
		assign(out, rule.TargetWidgets, valueRuleShows(node, rule))
	}
	for _, rule := range cfg.ConnectionRules {
		assign(out, rule.TargetWidgets, connectionRuleShows(node, rule))
	}
	return out
}

// ResolveInput re-evaluates every connection rule whose group contains
// inputName. The whole group is checked, not only the changed input.
func ResolveInput(node interfaces.Node, cfg rules.NodeTypeConfig, inputName string) Decisions {
	out := Decisions{}
	if node == nil {
		return out
	}
	for _, rule := range cfg.RulesForInput(inputName) {
		assign(out, rule.TargetWidgets, connectionRuleShows(node, rule))
	}
	return out
}

// ResolveWidget re-evaluates the value rules that read widgetName.
func ResolveWidget(node interfaces.Node, cfg rules.NodeTypeConfig, widgetName string) Decisions {
	out := Decisions{}
	if node == nil {
		return out
	}
	for _, rule := range cfg.ValueRules {
		for _, name := range rule.ControllingWidgets {
			if name == widgetName {
				assign(out, rule.TargetWidgets, valueRuleShows(node, rule))
				break
			}
		}
	}
	return out
}

func valueRuleShows(node interfaces.Node, rule rules.ValueRule) bool {
	for _, name := range rule.ControllingWidgets {
		widget := interfaces.FindWidget(node, name)
		if widget == nil {
			continue
		}
		if rule.Triggers(widget.Value()) {
			return true
		}
	}
	return false
}

func connectionRuleShows(node interfaces.Node, rule rules.ConnectionRule) bool {
	for _, name := range rule.ControllingInputs {
		if interfaces.IsConnected(node, name) {
			return true
		}
	}
	return false
}

func assign(out Decisions, targets []string, show bool) {
	for _, target := range targets {
		out[target] = show
	}
}
