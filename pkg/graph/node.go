package graph

import (
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// Layout constants of the reference host, in canvas units.
const (
	TitleHeight   = 30.0
	SlotHeight    = 20.0
	WidgetHeight  = 20.0
	WidgetSpacing = 4.0
	MinWidth      = 180.0
)

// Input is the reference host input socket.
type Input struct {
	name     string
	link     *interfaces.LinkID
	optional bool
}

var _ interfaces.Input = (*Input)(nil)

// NewInput constructs a disconnected input.
func NewInput(name string, optional bool) *Input {
	return &Input{name: name, optional: optional}
}

func (in *Input) Name() string { return in.name }
func (in *Input) Link() *interfaces.LinkID { return in.link }
func (in *Input) Optional() bool { return in.optional }

// Node is the reference host node.
type Node struct {
	id      interfaces.NodeID
	typ     string
	title   string
	widgets []*Widget
	inputs  []*Input
	outputs int
	size    interfaces.Size
	hooks   interfaces.NodeHooks
	graph   *Graph
}

var _ interfaces.Node = (*Node)(nil)

// NewNode constructs a node of the given type with its widgets and inputs.
func NewNode(nodeType string, widgets []*Widget, inputs []*Input) *Node {
	n := &Node{
		typ:     nodeType,
		title:   nodeType,
		widgets: widgets,
		inputs:  inputs,
		outputs: 1,
	}
	for _, w := range widgets {
		w.node = n
	}
	n.size = n.ComputeSize()
	return n
}

func (n *Node) ID() interfaces.NodeID { return n.id }
func (n *Node) Type() string { return n.typ }
func (n *Node) Title() string { return n.title }
func (n *Node) Size() interfaces.Size { return n.size }
func (n *Node) SetSize(size interfaces.Size) { n.size = size }
func (n *Node) Hooks() *interfaces.NodeHooks { return &n.hooks }

// Widgets returns widgets in layout order.
func (n *Node) Widgets() []interfaces.Widget {
	out := make([]interfaces.Widget, 0, len(n.widgets))
	for _, w := range n.widgets {
		out = append(out, w)
	}
	return out
}

// Inputs returns input sockets in slot order.
func (n *Node) Inputs() []interfaces.Input {
	out := make([]interfaces.Input, 0, len(n.inputs))
	for _, in := range n.inputs {
		out = append(out, in)
	}
	return out
}

// Widget returns the concrete widget with the given name.
func (n *Node) Widget(name string) *Widget {
	for _, w := range n.widgets {
		if w.name == name {
			return w
		}
	}
	return nil
}

// Input returns the concrete input with the given name and its slot index.
func (n *Node) Input(name string) (*Input, int) {
	for i, in := range n.inputs {
		if in.name == name {
			return in, i
		}
	}
	return nil, -1
}

// ComputeSize returns the natural size: title bar, slot rows, then every
// widget that contributes a positive height plus spacing.
func (n *Node) ComputeSize() interfaces.Size {
	width := MinWidth
	rows := len(n.inputs)
	if n.outputs > rows {
		rows = n.outputs
	}
	height := TitleHeight + float64(rows)*SlotHeight

	for _, w := range n.widgets {
		size := w.contribution(width)
		if size.Width > width {
			width = size.Width
		}
		if size.Height > 0 {
			height += size.Height + WidgetSpacing
		}
	}
	return interfaces.Size{Width: width, Height: height}
}

// Configure applies serialized widget values to an existing node and emits
// the Configured hook. Change handlers are not invoked for restored values.
func (n *Node) Configure(values map[string]any) {
	for name, value := range values {
		if w := n.Widget(name); w != nil {
			w.value = value
		}
	}
	n.hooks.Configured.Emit(n)
}
