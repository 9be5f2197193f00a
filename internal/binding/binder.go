// Package binding attaches visibility handling to node lifecycle hooks. It is
// the only package that reacts to host events; everything it does goes
// through the resolver and the toggle engine.
package binding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-nodevis/internal/logging"
	"github.com/goliatone/go-nodevis/internal/overrides"
	"github.com/goliatone/go-nodevis/internal/preferences"
	"github.com/goliatone/go-nodevis/internal/resolver"
	"github.com/goliatone/go-nodevis/internal/rules"
	"github.com/goliatone/go-nodevis/internal/toggle"
	"github.com/goliatone/go-nodevis/pkg/hooks"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// HandlerKey identifies every handler the binder registers on host hooks.
const HandlerKey = "nodevis.binding"

var (
	// ErrNodeNotAttached is returned for operations on nodes the binder does not manage.
	ErrNodeNotAttached     = errors.New("binding: node is not attached")
	ErrWidgetNotToggleable = errors.New("binding: widget is not toggleable on this node")
)

// Binder wires the visibility runtime into node hooks.
type Binder struct {
	registry  *rules.Registry
	engine    *toggle.Engine
	overrides overrides.Repository
	prefs     *preferences.Service
	logger    interfaces.Logger
	ctx       context.Context

	mu      sync.Mutex
	nodes   map[interfaces.NodeID]interfaces.Node
	actions MenuActions
}

// Option configures a Binder.
type Option func(*Binder)

// WithOverrides sets the override store. Defaults to an in-memory store.
func WithOverrides(repo overrides.Repository) Option {
	return func(b *Binder) {
		if repo != nil {
			b.overrides = repo
		}
	}
}

// WithPreferences sets the preference service consulted for the kill switch
// and hide-by-default values.
func WithPreferences(svc *preferences.Service) Option {
	return func(b *Binder) {
		b.prefs = svc
	}
}

// WithLogger overrides the binder logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithContext sets the context used for store calls made from host hooks,
// which carry no context of their own.
func WithContext(ctx context.Context) Option {
	return func(b *Binder) {
		if ctx != nil {
			b.ctx = ctx
		}
	}
}

// New constructs a Binder over a rule registry and toggle engine.
func New(registry *rules.Registry, engine *toggle.Engine, opts ...Option) *Binder {
	if registry == nil {
		registry = rules.NewRegistry()
	}
	if engine == nil {
		engine = toggle.NewEngine()
	}
	b := &Binder{
		registry:  registry,
		engine:    engine,
		overrides: overrides.NewMemoryRepository(),
		logger:    logging.NoOp(),
		ctx:       context.Background(),
		nodes:     make(map[interfaces.NodeID]interfaces.Node),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.prefs != nil {
		b.prefs.OnAnyChange(HandlerKey, b.onPreferenceChange)
	}
	return b
}

// AutoAttach registers Attach on a host list that announces new nodes.
func (b *Binder) AutoAttach(list *hooks.List[interfaces.Node]) bool {
	if list == nil {
		return false
	}
	return list.Add(HandlerKey, func(node interfaces.Node) {
		b.Attach(node)
	})
}

// Attach registers lifecycle, value-change and menu handlers on a node of a
// managed type. It reports false for unmanaged nodes, which are never touched.
// Attaching the same node twice does not register handlers twice.
func (b *Binder) Attach(node interfaces.Node) bool {
	if node == nil {
		return false
	}
	cfg, ok := b.registry.Lookup(node.Type())
	if !ok {
		return false
	}

	h := node.Hooks()
	h.Created.Add(HandlerKey, b.onLifecycle)
	h.Configured.Add(HandlerKey, b.onLifecycle)
	h.Loaded.Add(HandlerKey, b.onLifecycle)
	h.Connections.Add(HandlerKey, b.onConnection)
	h.Removed.Add(HandlerKey, b.onRemoved)
	h.Menu.Add(HandlerKey, b.onMenu)

	for _, name := range cfg.ControllingWidgets() {
		if widget := interfaces.FindWidget(node, name); widget != nil {
			widget.Changes().Add(HandlerKey, b.onWidgetChange)
		}
	}

	b.mu.Lock()
	_, existed := b.nodes[node.ID()]
	b.nodes[node.ID()] = node
	b.mu.Unlock()

	if !existed {
		logging.WithNode(b.logger, node).Debug("binding.node.attached")
		// A node attached after its Created hook already ran still starts
		// out with current visibility.
		b.logError(node, b.Refresh(b.ctx, node))
	}
	return true
}

// Detach removes every handler the binder registered on node.
func (b *Binder) Detach(node interfaces.Node) {
	if node == nil {
		return
	}
	h := node.Hooks()
	h.Created.Remove(HandlerKey)
	h.Configured.Remove(HandlerKey)
	h.Loaded.Remove(HandlerKey)
	h.Connections.Remove(HandlerKey)
	h.Removed.Remove(HandlerKey)
	h.Menu.Remove(HandlerKey)
	for _, widget := range node.Widgets() {
		if widget != nil {
			widget.Changes().Remove(HandlerKey)
		}
	}

	b.mu.Lock()
	delete(b.nodes, node.ID())
	b.mu.Unlock()
	logging.WithNode(b.logger, node).Debug("binding.node.detached")
}

// Node returns an attached node by id.
func (b *Binder) Node(id interfaces.NodeID) (interfaces.Node, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	node, ok := b.nodes[id]
	return node, ok
}

// Nodes returns attached nodes ordered by id.
func (b *Binder) Nodes() []interfaces.Node {
	b.mu.Lock()
	out := make([]interfaces.Node, 0, len(b.nodes))
	for _, node := range b.nodes {
		out = append(out, node)
	}
	b.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Refresh re-runs every rule on node and applies overrides and defaults.
// Unmanaged nodes are left untouched.
func (b *Binder) Refresh(ctx context.Context, node interfaces.Node) error {
	if node == nil {
		return nil
	}
	cfg, ok := b.registry.Lookup(node.Type())
	if !ok {
		return nil
	}
	plan := resolver.Plan(node, resolver.Resolve(node, cfg), b.tiers(ctx, node))
	b.engine.ApplyAll(node, plan, b.hidingEnabled())
	logging.WithNode(b.logger, node).Trace("binding.node.refreshed", "decisions", len(plan))
	return nil
}

// RefreshByID refreshes an attached node.
func (b *Binder) RefreshByID(ctx context.Context, id interfaces.NodeID) error {
	node, ok := b.Node(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotAttached, id)
	}
	return b.Refresh(ctx, node)
}

// RefreshAll refreshes every attached node.
func (b *Binder) RefreshAll(ctx context.Context) error {
	for _, node := range b.Nodes() {
		if err := b.Refresh(ctx, node); err != nil {
			return err
		}
	}
	return nil
}

// ToggleWidget flips the per-instance override of a toggleable widget and
// applies it straight away. It returns the new hidden value.
func (b *Binder) ToggleWidget(ctx context.Context, id interfaces.NodeID, widgetName string) (bool, error) {
	node, ok := b.Node(id)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrNodeNotAttached, id)
	}
	widgetName = strings.TrimSpace(widgetName)
	widget := interfaces.FindWidget(node, widgetName)
	if _, toggleable := b.registry.Toggleable(widgetName); !toggleable || widget == nil {
		return false, fmt.Errorf("%w: %s", ErrWidgetNotToggleable, widgetName)
	}

	logger := logging.WithWidget(logging.WithNode(b.logger, node), widgetName)
	currentHidden := widget.RenderKind() == interfaces.RenderKindHidden
	entry, err := overrides.Toggle(ctx, b.overrides, node.ID(), widgetName, currentHidden)
	if err != nil {
		logger.Error("binding.override.failed", "error", err)
		return currentHidden, err
	}
	b.engine.Apply(node, widgetName, !entry.Hidden, b.hidingEnabled())
	logger.Info("binding.override.toggled", "hidden", entry.Hidden)
	return entry.Hidden, nil
}

func (b *Binder) onLifecycle(node interfaces.Node) {
	// Configure may run on a node whose widgets were rebuilt; re-attaching
	// is a no-op for handlers already present.
	b.Attach(node)
	b.logError(node, b.Refresh(b.ctx, node))
}

func (b *Binder) onConnection(change interfaces.ConnectionChange) {
	if change.Kind != interfaces.SlotInput || change.Node == nil {
		return
	}
	cfg, ok := b.registry.Lookup(change.Node.Type())
	if !ok {
		return
	}
	b.applyAffected(change.Node, cfg, resolver.ResolveInput(change.Node, cfg, change.Name))
}

func (b *Binder) onWidgetChange(change interfaces.WidgetChange) {
	if change.Node == nil || change.Widget == nil {
		return
	}
	cfg, ok := b.registry.Lookup(change.Node.Type())
	if !ok {
		return
	}
	b.applyAffected(change.Node, cfg, resolver.ResolveWidget(change.Node, cfg, change.Widget.Name()))
}

// applyAffected applies the full resolution restricted to the widgets a
// partial resolution touched, so a later rule still wins over an earlier one.
func (b *Binder) applyAffected(node interfaces.Node, cfg rules.NodeTypeConfig, affected resolver.Decisions) {
	if len(affected) == 0 {
		return
	}
	plan := resolver.Plan(node, resolver.Resolve(node, cfg), b.tiers(b.ctx, node))
	filtered := plan[:0]
	for _, decision := range plan {
		if _, ok := affected[decision.Widget]; ok {
			filtered = append(filtered, decision)
		}
	}
	b.engine.ApplyAll(node, filtered, b.hidingEnabled())
}

func (b *Binder) onRemoved(node interfaces.Node) {
	if node == nil {
		return
	}
	removed, err := b.overrides.DeleteByNode(b.ctx, node.ID())
	b.logError(node, err)
	released := b.engine.Forget(node.ID())
	b.Detach(node)
	logging.WithNode(b.logger, node).Debug("binding.node.removed",
		"overrides_removed", removed,
		"originals_released", released,
	)
}

func (b *Binder) onMenu(menu *interfaces.Menu) {
	if menu == nil || menu.Node == nil {
		return
	}
	node := menu.Node
	actions := b.menuActions()
	menu.Add(interfaces.MenuOption{
		Key:   MenuKeyRefresh,
		Label: "Refresh widget visibility",
		Callback: func(ctx context.Context) error {
			return actions.Refresh(ctx, node.ID())
		},
	})
	for _, spec := range b.registry.Toggleables() {
		widget := interfaces.FindWidget(node, spec.WidgetName)
		if widget == nil {
			continue
		}
		name := spec.WidgetName
		verb := "Hide"
		if widget.RenderKind() == interfaces.RenderKindHidden {
			verb = "Show"
		}
		menu.Add(interfaces.MenuOption{
			Key:   MenuToggleKey(name),
			Label: verb + " " + name,
			Callback: func(ctx context.Context) error {
				return actions.Toggle(ctx, node.ID(), name)
			},
		})
	}
}

func (b *Binder) onPreferenceChange(change preferences.Change) {
	if !b.affectsVisibility(change.Key) {
		return
	}
	b.logger.Debug("binding.preferences.changed", "key", change.Key, "value", change.Value)
	if err := b.RefreshAll(b.ctx); err != nil {
		b.logger.Error("binding.refresh.failed", "error", err)
	}
}

func (b *Binder) affectsVisibility(key string) bool {
	if key == preferences.KeyHideWidgets {
		return true
	}
	for _, spec := range b.registry.Toggleables() {
		if spec.SettingKey == key {
			return true
		}
	}
	return false
}

func (b *Binder) hidingEnabled() bool {
	if b.prefs == nil {
		return true
	}
	return b.prefs.HidingEnabled()
}

func (b *Binder) tiers(ctx context.Context, node interfaces.Node) resolver.Tiers {
	return resolver.Tiers{
		Toggleables: b.registry.Toggleables(),
		Override: func(widget string) (bool, bool) {
			hidden, ok, err := b.overrides.Get(ctx, node.ID(), widget)
			if err != nil {
				logging.WithWidget(logging.WithNode(b.logger, node), widget).
					Warn("binding.override.lookup_failed", "error", err)
				return false, false
			}
			return hidden, ok
		},
		DefaultHidden: func(spec rules.ToggleableWidget) (bool, bool) {
			if b.prefs == nil {
				return false, false
			}
			return b.prefs.Lookup(spec.SettingKey)
		},
	}
}

func (b *Binder) logError(node interfaces.Node, err error) {
	if err == nil {
		return
	}
	logging.WithNode(b.logger, node).Error("binding.node.failed", "error", err)
}
