package interfaces

import (
	"context"

	"github.com/goliatone/go-nodevis/pkg/hooks"
)

// NodeID identifies a node instance for its whole lifetime in the editor.
type NodeID int64

// LinkID identifies a connection between two node slots.
type LinkID int64

// Size is a width/height pair in canvas units.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// RenderKind names the contract a widget's visual representation follows.
type RenderKind string

// RenderKindHidden is the sentinel kind host renderers skip entirely.
const RenderKindHidden RenderKind = "nodevis.hidden"

// SizeFunc reports the space a widget contributes for the given node width.
type SizeFunc func(width float64) Size

// Widget is a single form control on a node as exposed by the host editor.
type Widget interface {
	Name() string
	Value() any
	RenderKind() RenderKind
	SetRenderKind(kind RenderKind)
	// SizeFunc returns the current size contribution function. A nil value
	// means the host default applies.
	SizeFunc() SizeFunc
	SetSizeFunc(fn SizeFunc)
	// HeightOverride reports a forced height contribution, if any.
	HeightOverride() (float64, bool)
	SetHeightOverride(height float64)
	ClearHeightOverride()
	// Changes is the value-change handler list for this widget.
	Changes() *hooks.List[WidgetChange]
}

// WidgetChange is emitted after a widget value changes.
type WidgetChange struct {
	Node     Node
	Widget   Widget
	Value    any
	Previous any
}

// Input is a node input socket.
type Input interface {
	Name() string
	// Link returns the active connection, or nil when disconnected.
	Link() *LinkID
	Optional() bool
}

// SlotKind distinguishes input and output slots in connection events.
type SlotKind int

const (
	SlotInput SlotKind = iota + 1
	SlotOutput
)

// ConnectionChange is emitted after a slot is connected or disconnected.
type ConnectionChange struct {
	Node      Node
	Kind      SlotKind
	Slot      int
	Name      string
	Connected bool
}

// MenuOption is a single context menu entry.
type MenuOption struct {
	Key      string
	Label    string
	Callback func(ctx context.Context) error
}

// Menu collects the options for a node context menu while handlers run.
type Menu struct {
	Node    Node
	Options []MenuOption
}

// Add appends an option unless one with the same key is already present.
func (m *Menu) Add(option MenuOption) {
	if m == nil {
		return
	}
	for _, existing := range m.Options {
		if existing.Key != "" && existing.Key == option.Key {
			return
		}
	}
	m.Options = append(m.Options, option)
}

// Find returns the option registered under key.
func (m *Menu) Find(key string) (MenuOption, bool) {
	if m == nil {
		return MenuOption{}, false
	}
	for _, option := range m.Options {
		if option.Key == key {
			return option, true
		}
	}
	return MenuOption{}, false
}

// NodeHooks groups the lifecycle handler lists a host exposes per node.
type NodeHooks struct {
	Created     hooks.List[Node]
	Configured  hooks.List[Node]
	Loaded      hooks.List[Node]
	Connections hooks.List[ConnectionChange]
	Removed     hooks.List[Node]
	Menu        hooks.List[*Menu]
}

// Node is one instance of a computational unit in the graph.
type Node interface {
	ID() NodeID
	Type() string
	// Widgets returns widgets in layout order.
	Widgets() []Widget
	Inputs() []Input
	Size() Size
	// ComputeSize returns the natural size given current widget states.
	ComputeSize() Size
	SetSize(size Size)
	Hooks() *NodeHooks
}

// FindWidget returns the first widget with the given name, or nil.
func FindWidget(node Node, name string) Widget {
	if node == nil {
		return nil
	}
	for _, widget := range node.Widgets() {
		if widget != nil && widget.Name() == name {
			return widget
		}
	}
	return nil
}

// FindInput returns the first input with the given name, or nil.
func FindInput(node Node, name string) Input {
	if node == nil {
		return nil
	}
	for _, input := range node.Inputs() {
		if input != nil && input.Name() == name {
			return input
		}
	}
	return nil
}

// IsConnected reports whether the named input currently has a link.
func IsConnected(node Node, name string) bool {
	input := FindInput(node, name)
	return input != nil && input.Link() != nil
}
