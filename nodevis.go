// Package nodevis hides and shows node widgets in a visual graph editor based
// on the node's own widget values, its connected inputs, per-instance user
// overrides and global hide-by-default preferences.
package nodevis

import (
	"context"

	"github.com/goliatone/go-nodevis/internal/di"
	"github.com/goliatone/go-nodevis/internal/preferences"
	"github.com/goliatone/go-nodevis/internal/rules"
	"github.com/goliatone/go-nodevis/pkg/hooks"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

type (
	Node             = interfaces.Node
	NodeID           = interfaces.NodeID
	Widget           = interfaces.Widget
	ValueRule        = rules.ValueRule
	ConnectionRule   = rules.ConnectionRule
	ToggleableWidget = rules.ToggleableWidget
	NodeTypeConfig   = rules.NodeTypeConfig
	RuleRegistry     = rules.Registry
)

const (
	// PreferenceHideWidgets is the global kill switch key.
	PreferenceHideWidgets = preferences.KeyHideWidgets
	// PreferenceUpdatedTimestepScaling is the remotely mirrored setting key.
	PreferenceUpdatedTimestepScaling = preferences.KeyUpdatedTimestepScaling
	// RenderKindHidden is the render kind assigned to hidden widgets.
	RenderKindHidden = interfaces.RenderKindHidden
)

// PreferenceValue is a registered preference and its current value.
type PreferenceValue struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Value  bool   `json:"value"`
	Remote bool   `json:"remote"`
}

// Module is the top level visibility runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg and optional container overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Rules returns the frozen rule registry.
func (m *Module) Rules() *RuleRegistry {
	return m.container.Registry()
}

// Attach manages node when its type has rules. It reports false for
// unmanaged nodes and when the module is disabled.
func (m *Module) Attach(node Node) bool {
	if !m.container.Config.Enabled {
		return false
	}
	return m.container.Binder().Attach(node)
}

// AutoAttach attaches every node announced on list.
func (m *Module) AutoAttach(list *hooks.List[Node]) bool {
	if !m.container.Config.Enabled {
		return false
	}
	return m.container.Binder().AutoAttach(list)
}

// Refresh re-runs the rules of one node.
func (m *Module) Refresh(ctx context.Context, node Node) error {
	return m.container.Binder().Refresh(ctx, node)
}

// RefreshAll re-runs the rules of every attached node.
func (m *Module) RefreshAll(ctx context.Context) error {
	return m.container.Binder().RefreshAll(ctx)
}

// ToggleWidget flips the per-instance override of a toggleable widget and
// returns whether it is now hidden.
func (m *Module) ToggleWidget(ctx context.Context, id NodeID, widget string) (bool, error) {
	return m.container.Binder().ToggleWidget(ctx, id, widget)
}

// SetPreference stores a boolean preference. Attached nodes refresh when the
// preference affects visibility.
func (m *Module) SetPreference(ctx context.Context, key string, value bool) error {
	return m.container.Preferences().Set(ctx, key, value)
}

// Preference returns the current value of a preference.
func (m *Module) Preference(key string) bool {
	return m.container.Preferences().Value(key)
}

// Preferences returns every registered preference with its current value,
// in registration order.
func (m *Module) Preferences() []PreferenceValue {
	prefs := m.container.Preferences()
	defs := prefs.Definitions()
	out := make([]PreferenceValue, 0, len(defs))
	for _, def := range defs {
		out = append(out, PreferenceValue{
			Key:    def.Key,
			Label:  def.Label,
			Value:  prefs.Value(def.Key),
			Remote: def.Remote,
		})
	}
	return out
}

// HidingEnabled reports the global kill switch.
func (m *Module) HidingEnabled() bool {
	return m.container.Preferences().HidingEnabled()
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
