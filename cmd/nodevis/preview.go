package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-nodevis"
	"github.com/goliatone/go-nodevis/pkg/graph"
	"github.com/spf13/cobra"
)

type widgetState struct {
	Name   string `json:"name"`
	Value  any    `json:"value"`
	Hidden bool   `json:"hidden"`
}

type nodeState struct {
	ID      int64         `json:"id"`
	Type    string        `json:"type"`
	Managed bool          `json:"managed"`
	Height  float64       `json:"height"`
	Widgets []widgetState `json:"widgets"`
}

type toggleTarget struct {
	node   nodevis.NodeID
	widget string
}

func newPreviewCommand(configPath *string) *cobra.Command {
	var (
		asJSON  bool
		sets    []string
		toggles []string
	)

	cmd := &cobra.Command{
		Use:   "preview <fixture.yaml>",
		Short: "Load a graph fixture and print the resulting widget visibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := parsePreferenceAssignments(sets)
			if err != nil {
				return err
			}
			targets, err := parseToggleTargets(toggles)
			if err != nil {
				return err
			}

			module, err := moduleBuilder(*configPath)
			if err != nil {
				return err
			}
			defer module.Close()

			states, err := runPreview(cmd.Context(), module, args[0], prefs, targets)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(states)
			}
			return writePreview(cmd.OutOrStdout(), states)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print node states as JSON")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Preference assignment key=bool applied before loading (repeatable)")
	cmd.Flags().StringArrayVar(&toggles, "toggle", nil, "Per-node override nodeID:widget applied after loading (repeatable)")
	return cmd
}

func runPreview(ctx context.Context, module *nodevis.Module, fixturePath string, prefs []preferenceAssignment, targets []toggleTarget) ([]nodeState, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, pref := range prefs {
		if err := module.SetPreference(ctx, pref.key, pref.value); err != nil {
			return nil, fmt.Errorf("set %s: %w", pref.key, err)
		}
	}

	g := graph.New()
	module.AutoAttach(&g.NodeAdded)
	nodes, err := graph.LoadFixtureFile(g, fixturePath)
	if err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}

	for _, target := range targets {
		if _, err := module.ToggleWidget(ctx, target.node, target.widget); err != nil {
			return nil, fmt.Errorf("toggle %d:%s: %w", target.node, target.widget, err)
		}
	}

	registry := module.Rules()
	states := make([]nodeState, 0, len(nodes))
	for _, node := range nodes {
		state := nodeState{
			ID:      int64(node.ID()),
			Type:    node.Type(),
			Managed: registry.Manages(node.Type()),
			Height:  node.Size().Height,
		}
		for _, widget := range node.Widgets() {
			state.Widgets = append(state.Widgets, widgetState{
				Name:   widget.Name(),
				Value:  widget.Value(),
				Hidden: widget.RenderKind() == nodevis.RenderKindHidden,
			})
		}
		states = append(states, state)
	}
	return states, nil
}

func writePreview(w io.Writer, states []nodeState) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tTYPE\tWIDGET\tVALUE\tVISIBLE")
	for _, state := range states {
		label := fmt.Sprintf("%d", state.ID)
		if !state.Managed {
			label += "*"
		}
		for _, widget := range state.Widgets {
			visible := "yes"
			if widget.Hidden {
				visible = "no"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%s\n", label, state.Type, widget.Name, widget.Value, visible)
		}
	}
	return tw.Flush()
}

type preferenceAssignment struct {
	key   string
	value bool
}

func parsePreferenceAssignments(values []string) ([]preferenceAssignment, error) {
	out := make([]preferenceAssignment, 0, len(values))
	for _, raw := range values {
		key, rawValue, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=bool", raw)
		}
		value, err := strconv.ParseBool(strings.TrimSpace(rawValue))
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", raw, err)
		}
		out = append(out, preferenceAssignment{key: key, value: value})
	}
	return out, nil
}

func parseToggleTargets(values []string) ([]toggleTarget, error) {
	out := make([]toggleTarget, 0, len(values))
	for _, raw := range values {
		rawID, widget, ok := strings.Cut(raw, ":")
		widget = strings.TrimSpace(widget)
		if !ok || widget == "" {
			return nil, fmt.Errorf("invalid --toggle %q: expected nodeID:widget", raw)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid --toggle %q: node id must be a positive integer", raw)
		}
		out = append(out, toggleTarget{node: nodevis.NodeID(id), widget: widget})
	}
	return out, nil
}
