package visibilitycmd_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-nodevis/internal/binding"
	visibilitycmd "github.com/goliatone/go-nodevis/internal/commands/visibility"
	"github.com/goliatone/go-nodevis/internal/logging/logtest"
	"github.com/goliatone/go-nodevis/internal/preferences"
	"github.com/goliatone/go-nodevis/internal/rules"
	"github.com/goliatone/go-nodevis/internal/toggle"
	"github.com/goliatone/go-nodevis/pkg/graph"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// countingBinder forwards to a real binder and counts toggle attempts.
type countingBinder struct {
	*binding.Binder
	toggles int
}

func (c *countingBinder) ToggleWidget(ctx context.Context, id interfaces.NodeID, widget string) (bool, error) {
	c.toggles++
	return c.Binder.ToggleWidget(ctx, id, widget)
}

func TestDispatchedCommandsDriveGraphNodes(t *testing.T) {
	registry := rules.Builtin()
	registry.Freeze()
	prefs := preferences.NewService(preferences.NewMemoryRepository())
	for _, def := range preferences.BuiltinDefinitions(registry.Toggleables()) {
		if err := prefs.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.Key, err)
		}
	}
	binder := &countingBinder{Binder: binding.New(registry, toggle.NewEngine(), binding.WithPreferences(prefs))}

	g := graph.New()
	binder.AutoAttach(&g.NodeAdded)
	node := g.Add(graph.NewNode("ClownSampler_Beta",
		[]*graph.Widget{
			graph.NewWidget("noise_type", "gaussian"),
			graph.NewWidget("alpha", -1.0),
			graph.NewWidget(rules.WidgetExtraOptions, ""),
		},
		nil,
	))
	if !node.Widget(rules.WidgetExtraOptions).Hidden() {
		t.Fatalf("expected extra_options hidden by default")
	}

	set, err := visibilitycmd.RegisterCommands(nil, binder, prefs, logtest.New())
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	toggleSub := dispatcher.SubscribeCommand(set.ToggleWidget)
	t.Cleanup(toggleSub.Unsubscribe)
	refreshSub := dispatcher.SubscribeCommand(set.RefreshNode)
	t.Cleanup(refreshSub.Unsubscribe)

	ctx := context.Background()
	if err := dispatcher.Dispatch(ctx, visibilitycmd.ToggleWidgetCommand{NodeID: int64(node.ID()), Widget: rules.WidgetExtraOptions}); err != nil {
		t.Fatalf("dispatch toggle: %v", err)
	}
	if node.Widget(rules.WidgetExtraOptions).Hidden() {
		t.Fatalf("expected dispatched toggle to show extra_options")
	}

	// A host that reset the widget out of band gets it back on refresh.
	node.Widget("alpha").SetRenderKind(graph.RenderKindText)
	if err := dispatcher.Dispatch(ctx, visibilitycmd.RefreshNodeCommand{NodeID: int64(node.ID())}); err != nil {
		t.Fatalf("dispatch refresh: %v", err)
	}
	if !node.Widget("alpha").Hidden() {
		t.Fatalf("expected refresh to hide alpha again")
	}
	if node.Widget(rules.WidgetExtraOptions).Hidden() {
		t.Fatalf("expected override to survive refresh")
	}

	before := binder.toggles
	if err := dispatcher.Dispatch(ctx, visibilitycmd.ToggleWidgetCommand{NodeID: 999, Widget: rules.WidgetExtraOptions}); err == nil {
		t.Fatalf("expected dispatch error for an unattached node")
	}
	if got := binder.toggles - before; got != 1 {
		t.Fatalf("expected a single attempt without retries, got %d", got)
	}
}
