// Package toggle applies visibility decisions to host widgets. It is the only
// code that changes a widget's render kind, size function, height override or
// the node size.
package toggle

import (
	"sync"

	"github.com/goliatone/go-nodevis/internal/logging"
	"github.com/goliatone/go-nodevis/internal/resolver"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// OriginalState is what a widget looked like before it was first toggled.
type OriginalState struct {
	RenderKind interfaces.RenderKind
	SizeFunc   interfaces.SizeFunc

	// HeightOverride is the host's forced height, valid when HasHeightOverride.
	HeightOverride    float64
	HasHeightOverride bool
}

type widgetKey struct {
	node   interfaces.NodeID
	widget string
}

// Engine remembers each widget's original state per node instance so a hidden
// widget can always be restored.
type Engine struct {
	mu        sync.Mutex
	originals map[widgetKey]OriginalState
	logger    interfaces.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the engine logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine constructs an Engine with no captured state.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		originals: make(map[widgetKey]OriginalState),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// hiddenSize is the zero footprint contribution of a hidden widget.
func hiddenSize(float64) interfaces.Size {
	return interfaces.Size{}
}

// Apply shows or hides one widget and reconciles the node height. With
// hidingEnabled false the widget is always restored. A widget missing from
// the node is ignored.
func (e *Engine) Apply(node interfaces.Node, widgetName string, show, hidingEnabled bool) {
	if node == nil {
		return
	}
	widget := interfaces.FindWidget(node, widgetName)
	if widget == nil {
		return
	}
	before := node.Size()
	visible := show || !hidingEnabled

	original := e.capture(node.ID(), widget)
	if visible {
		widget.SetRenderKind(original.RenderKind)
		widget.SetSizeFunc(original.SizeFunc)
		if original.HasHeightOverride {
			widget.SetHeightOverride(original.HeightOverride)
		} else {
			widget.ClearHeightOverride()
		}
	} else {
		widget.SetRenderKind(interfaces.RenderKindHidden)
		widget.SetSizeFunc(hiddenSize)
		widget.SetHeightOverride(0)
	}

	natural := node.ComputeSize()
	height := natural.Height
	if visible && before.Height > height {
		height = before.Height
	}
	node.SetSize(interfaces.Size{Width: before.Width, Height: height})

	logging.WithWidget(logging.WithNode(e.logger, node), widgetName).Trace("toggle.applied",
		"show", visible,
		"height", height,
	)
}

// ApplyAll applies a batch of decisions in order before returning.
func (e *Engine) ApplyAll(node interfaces.Node, decisions []resolver.Decision, hidingEnabled bool) {
	for _, decision := range decisions {
		e.Apply(node, decision.Widget, decision.Show, hidingEnabled)
	}
}

// Original returns the captured original state of a widget on a node.
func (e *Engine) Original(nodeID interfaces.NodeID, widgetName string) (OriginalState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.originals[widgetKey{node: nodeID, widget: widgetName}]
	return state, ok
}

// Forget drops every captured state of a node. It returns the number of
// widgets released.
func (e *Engine) Forget(nodeID interfaces.NodeID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	removed := 0
	for key := range e.originals {
		if key.node == nodeID {
			delete(e.originals, key)
			removed++
		}
	}
	return removed
}

// Tracked returns the number of captured widget states.
func (e *Engine) Tracked() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.originals)
}

// capture records the widget state the first time the engine sees it. A
// widget already carrying the hidden sentinel records neither its kind nor its
// forced zero height.
func (e *Engine) capture(nodeID interfaces.NodeID, widget interfaces.Widget) OriginalState {
	key := widgetKey{node: nodeID, widget: widget.Name()}
	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok := e.originals[key]; ok {
		return state
	}
	state := OriginalState{
		RenderKind: widget.RenderKind(),
		SizeFunc:   widget.SizeFunc(),
	}
	if state.RenderKind == interfaces.RenderKindHidden {
		state.RenderKind = ""
	} else {
		state.HeightOverride, state.HasHeightOverride = widget.HeightOverride()
	}
	e.originals[key] = state
	return state
}
