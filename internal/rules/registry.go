package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrRegistryFrozen is returned by registration calls after Freeze.
	ErrRegistryFrozen     = errors.New("rules: registry is frozen")
	ErrNodeTypeRequired   = errors.New("rules: node type name is required")
	ErrWidgetNameRequired = errors.New("rules: toggleable widget name is required")
)

// SettingKeyPrefix prefixes the default preference key of toggleable widgets.
const SettingKeyPrefix = "nodevis.hide."

// Registry maps node type names to their rule configuration. It is populated
// at startup and frozen before any node is attached.
type Registry struct {
	mu          sync.RWMutex
	configs     map[string]*NodeTypeConfig
	toggleables []ToggleableWidget
	frozen      bool
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[string]*NodeTypeConfig),
	}
}

// Register binds cfg to every given node type. The types share one config
// value; registering a type again replaces its previous binding.
func (r *Registry) Register(cfg NodeTypeConfig, nodeTypes ...string) error {
	if len(nodeTypes) == 0 {
		return ErrNodeTypeRequired
	}
	names := make([]string, 0, len(nodeTypes))
	for _, nodeType := range nodeTypes {
		name := strings.TrimSpace(nodeType)
		if name == "" {
			return ErrNodeTypeRequired
		}
		names = append(names, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	shared := &cfg
	for _, name := range names {
		r.configs[name] = shared
	}
	return nil
}

// Lookup returns the configuration for nodeType. A missing entry means the
// node type is unmanaged.
func (r *Registry) Lookup(nodeType string) (NodeTypeConfig, bool) {
	if r == nil {
		return NodeTypeConfig{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[strings.TrimSpace(nodeType)]
	if !ok {
		return NodeTypeConfig{}, false
	}
	return *cfg, true
}

// Manages reports whether nodeType has a registered configuration.
func (r *Registry) Manages(nodeType string) bool {
	_, ok := r.Lookup(nodeType)
	return ok
}

// NodeTypes returns the registered node type names in sorted order.
func (r *Registry) NodeTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.configs))
	for name := range r.configs {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// RegisterToggleable adds a globally toggleable widget. An empty SettingKey
// defaults to SettingKeyPrefix plus the widget name. Registering the same
// widget name again replaces the earlier declaration in place.
func (r *Registry) RegisterToggleable(spec ToggleableWidget) error {
	spec.WidgetName = strings.TrimSpace(spec.WidgetName)
	if spec.WidgetName == "" {
		return ErrWidgetNameRequired
	}
	if strings.TrimSpace(spec.SettingKey) == "" {
		spec.SettingKey = SettingKeyPrefix + spec.WidgetName
	}
	if strings.TrimSpace(spec.Label) == "" {
		spec.Label = fmt.Sprintf("Hide %s by default", spec.WidgetName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	for i, existing := range r.toggleables {
		if existing.WidgetName == spec.WidgetName {
			r.toggleables[i] = spec
			return nil
		}
	}
	r.toggleables = append(r.toggleables, spec)
	return nil
}

// Toggleables returns the declared toggleable widgets in registration order.
func (r *Registry) Toggleables() []ToggleableWidget {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.toggleables)
}

// Toggleable returns the declaration for a widget name.
func (r *Registry) Toggleable(name string) (ToggleableWidget, bool) {
	if r == nil {
		return ToggleableWidget{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, spec := range r.toggleables {
		if spec.WidgetName == name {
			return spec, true
		}
	}
	return ToggleableWidget{}, false
}

// Freeze rejects any further registration.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}
