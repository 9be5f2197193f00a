package graph

import (
	"reflect"

	"github.com/goliatone/go-nodevis/pkg/hooks"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// Render kinds used by the reference host.
const (
	RenderKindCombo  interfaces.RenderKind = "combo"
	RenderKindNumber interfaces.RenderKind = "number"
	RenderKindToggle interfaces.RenderKind = "toggle"
	RenderKindText   interfaces.RenderKind = "text"
)

// Widget is the reference host widget.
type Widget struct {
	name    string
	value   any
	kind    interfaces.RenderKind
	sizeFn  interfaces.SizeFunc
	height  float64
	forced  bool
	changes hooks.List[interfaces.WidgetChange]
	node    *Node
}

var _ interfaces.Widget = (*Widget)(nil)

// WidgetOption customises a widget at construction.
type WidgetOption func(*Widget)

// WithRenderKind sets the initial render kind.
func WithRenderKind(kind interfaces.RenderKind) WidgetOption {
	return func(w *Widget) {
		if kind != "" {
			w.kind = kind
		}
	}
}

// WithSizeFunc sets the initial size contribution function.
func WithSizeFunc(fn interfaces.SizeFunc) WidgetOption {
	return func(w *Widget) {
		w.sizeFn = fn
	}
}

// NewWidget constructs a widget. The render kind defaults from the value type.
func NewWidget(name string, value any, opts ...WidgetOption) *Widget {
	w := &Widget{
		name:  name,
		value: value,
		kind:  kindFor(value),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func kindFor(value any) interfaces.RenderKind {
	switch value.(type) {
	case bool:
		return RenderKindToggle
	case int, int32, int64, float32, float64:
		return RenderKindNumber
	case string:
		return RenderKindCombo
	default:
		return RenderKindText
	}
}

func (w *Widget) Name() string { return w.name }
func (w *Widget) Value() any { return w.value }
func (w *Widget) RenderKind() interfaces.RenderKind { return w.kind }
func (w *Widget) SetRenderKind(kind interfaces.RenderKind) { w.kind = kind }
func (w *Widget) SizeFunc() interfaces.SizeFunc { return w.sizeFn }
func (w *Widget) SetSizeFunc(fn interfaces.SizeFunc) { w.sizeFn = fn }
func (w *Widget) Changes() *hooks.List[interfaces.WidgetChange] { return &w.changes }

func (w *Widget) HeightOverride() (float64, bool) {
	return w.height, w.forced
}

func (w *Widget) SetHeightOverride(height float64) {
	w.height = height
	w.forced = true
}

func (w *Widget) ClearHeightOverride() {
	w.height = 0
	w.forced = false
}

// SetValue updates the value and notifies change handlers when it differs.
func (w *Widget) SetValue(value any) {
	previous := w.value
	w.value = value
	if reflect.DeepEqual(previous, value) {
		return
	}
	var node interfaces.Node
	if w.node != nil {
		node = w.node
	}
	w.changes.Emit(interfaces.WidgetChange{
		Node:     node,
		Widget:   w,
		Value:    value,
		Previous: previous,
	})
}

// Hidden reports whether the widget currently renders with the hidden sentinel.
func (w *Widget) Hidden() bool {
	return w.kind == interfaces.RenderKindHidden
}

// contribution returns the layout size a widget adds for the given width.
func (w *Widget) contribution(width float64) interfaces.Size {
	size := interfaces.Size{Width: width, Height: WidgetHeight}
	if w.sizeFn != nil {
		size = w.sizeFn(width)
	}
	if w.forced {
		size.Height = w.height
	}
	return size
}
