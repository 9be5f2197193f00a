// Package graph is an in-memory reference implementation of the host editor
// contracts in pkg/interfaces. It models nodes, widgets, optional inputs and
// links closely enough to drive the visibility runtime in tests, the CLI
// preview, and embedders without a real editor.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-nodevis/pkg/hooks"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// ErrNodeNotFound is returned when a node id is not part of the graph.
var ErrNodeNotFound = errors.New("graph: node not found")

// ErrInputNotFound is returned when a node has no input with the requested name.
var ErrInputNotFound = errors.New("graph: input not found")

// Graph owns nodes and links.
type Graph struct {
	mu       sync.Mutex
	nodes    map[interfaces.NodeID]*Node
	order    []interfaces.NodeID
	nextNode interfaces.NodeID
	nextLink interfaces.LinkID

	// NodeAdded runs before a new node emits its Created hook, giving
	// extensions the chance to attach to it.
	NodeAdded hooks.List[interfaces.Node]
}

// New constructs an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[interfaces.NodeID]*Node),
	}
}

// Add registers the node, assigning an id when it has none, then emits
// NodeAdded followed by the node's Created hook.
func (g *Graph) Add(node *Node) *Node {
	if node == nil {
		return nil
	}
	g.mu.Lock()
	if node.id == 0 {
		g.nextNode++
		node.id = g.nextNode
	} else if node.id > g.nextNode {
		g.nextNode = node.id
	}
	node.graph = g
	g.nodes[node.id] = node
	g.order = append(g.order, node.id)
	g.mu.Unlock()

	g.NodeAdded.Emit(node)
	node.hooks.Created.Emit(node)
	return node
}

// Node returns the node with the given id.
func (g *Graph) Node(id interfaces.NodeID) (*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	node, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return node, nil
}

// Nodes returns nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		if node, ok := g.nodes[id]; ok {
			out = append(out, node)
		}
	}
	return out
}

// Connect links an upstream output to the named input and emits the node's
// Connections hook.
func (g *Graph) Connect(id interfaces.NodeID, inputName string) (interfaces.LinkID, error) {
	node, err := g.Node(id)
	if err != nil {
		return 0, err
	}
	input, slot := node.Input(inputName)
	if input == nil {
		return 0, fmt.Errorf("%w: %s", ErrInputNotFound, inputName)
	}

	g.mu.Lock()
	g.nextLink++
	link := g.nextLink
	g.mu.Unlock()

	input.link = &link
	node.hooks.Connections.Emit(interfaces.ConnectionChange{
		Node:      node,
		Kind:      interfaces.SlotInput,
		Slot:      slot,
		Name:      input.name,
		Connected: true,
	})
	return link, nil
}

// Disconnect clears the link on the named input and emits the node's
// Connections hook. Disconnecting an unlinked input is a no-op.
func (g *Graph) Disconnect(id interfaces.NodeID, inputName string) error {
	node, err := g.Node(id)
	if err != nil {
		return err
	}
	input, slot := node.Input(inputName)
	if input == nil {
		return fmt.Errorf("%w: %s", ErrInputNotFound, inputName)
	}
	if input.link == nil {
		return nil
	}
	input.link = nil
	node.hooks.Connections.Emit(interfaces.ConnectionChange{
		Node:      node,
		Kind:      interfaces.SlotInput,
		Slot:      slot,
		Name:      input.name,
		Connected: false,
	})
	return nil
}

// Remove deletes the node and emits its Removed hook.
func (g *Graph) Remove(id interfaces.NodeID) error {
	g.mu.Lock()
	node, ok := g.nodes[id]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	delete(g.nodes, id)
	for i, existing := range g.order {
		if existing == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	node.hooks.Removed.Emit(node)
	node.graph = nil
	return nil
}

// ContextMenu builds the context menu for a node by running its Menu hook.
func (g *Graph) ContextMenu(id interfaces.NodeID) (*interfaces.Menu, error) {
	node, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	menu := &interfaces.Menu{Node: node}
	node.hooks.Menu.Emit(menu)
	return menu, nil
}

// Loaded emits the post-load hook on every node, in id order.
func (g *Graph) Loaded() {
	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].id < nodes[j].id })
	for _, node := range nodes {
		node.hooks.Loaded.Emit(node)
	}
}
