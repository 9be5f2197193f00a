package graph

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-nodevis/pkg/interfaces"
	"gopkg.in/yaml.v3"
)

// Fixture is a minimal YAML description of a graph used by tests and the CLI
// preview. It is not the editor's workflow format.
type Fixture struct {
	Nodes []NodeFixture `yaml:"nodes"`
}

// NodeFixture describes one node.
type NodeFixture struct {
	ID      int64           `yaml:"id"`
	Type    string          `yaml:"type"`
	Widgets []WidgetFixture `yaml:"widgets"`
	Inputs  []InputFixture  `yaml:"inputs"`
}

// WidgetFixture describes a widget and its serialized value.
type WidgetFixture struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
	// Height overrides the default widget height when positive.
	Height float64 `yaml:"height"`
}

// InputFixture describes an input socket.
type InputFixture struct {
	Name      string `yaml:"name"`
	Optional  bool   `yaml:"optional"`
	Connected bool   `yaml:"connected"`
}

// DecodeFixture parses a YAML fixture.
func DecodeFixture(r io.Reader) (Fixture, error) {
	var fx Fixture
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fx); err != nil {
		if err == io.EOF {
			return Fixture{}, nil
		}
		return Fixture{}, fmt.Errorf("graph: decode fixture: %w", err)
	}
	for i, node := range fx.Nodes {
		if strings.TrimSpace(node.Type) == "" {
			return Fixture{}, fmt.Errorf("graph: fixture node %d has no type", i)
		}
	}
	return fx, nil
}

// ReadFixtureFile decodes the fixture stored at path.
func ReadFixtureFile(path string) (Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixture{}, err
	}
	defer f.Close()
	return DecodeFixture(f)
}

// LoadFixtureFile reads a fixture from disk and loads it into g.
func LoadFixtureFile(g *Graph, path string) ([]*Node, error) {
	fx, err := ReadFixtureFile(path)
	if err != nil {
		return nil, err
	}
	return g.Load(fx), nil
}

// Load replays the editor's load sequence: every node is created with default
// values, links are restored, serialized values are configured, and finally
// the post-load hook runs.
func (g *Graph) Load(fx Fixture) []*Node {
	type pending struct {
		node   *Node
		values map[string]any
		links  []string
	}
	loaded := make([]pending, 0, len(fx.Nodes))

	for _, spec := range fx.Nodes {
		widgets := make([]*Widget, 0, len(spec.Widgets))
		values := make(map[string]any, len(spec.Widgets))
		for _, w := range spec.Widgets {
			var opts []WidgetOption
			if w.Height > 0 {
				height := w.Height
				opts = append(opts, WithSizeFunc(func(width float64) interfaces.Size {
					return interfaces.Size{Width: width, Height: height}
				}))
			}
			widgets = append(widgets, NewWidget(w.Name, w.Value, opts...))
			values[w.Name] = w.Value
		}
		inputs := make([]*Input, 0, len(spec.Inputs))
		var links []string
		for _, in := range spec.Inputs {
			inputs = append(inputs, NewInput(in.Name, in.Optional))
			if in.Connected {
				links = append(links, in.Name)
			}
		}
		node := NewNode(spec.Type, widgets, inputs)
		node.id = interfaces.NodeID(spec.ID)
		loaded = append(loaded, pending{node: g.Add(node), values: values, links: links})
	}

	for _, item := range loaded {
		for _, name := range item.links {
			input, _ := item.node.Input(name)
			g.mu.Lock()
			g.nextLink++
			link := g.nextLink
			g.mu.Unlock()
			input.link = &link
		}
		item.node.Configure(item.values)
	}

	g.Loaded()

	nodes := make([]*Node, 0, len(loaded))
	for _, item := range loaded {
		nodes = append(nodes, item.node)
	}
	return nodes
}
