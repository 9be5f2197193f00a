package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-nodevis"
	"github.com/spf13/cobra"
)

type rulesReport struct {
	NodeTypes   map[string]nodevis.NodeTypeConfig `json:"node_types"`
	Toggleables []nodevis.ToggleableWidget        `json:"toggleables"`
}

func newRulesCommand(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List managed node types and toggleable widgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := moduleBuilder(*configPath)
			if err != nil {
				return err
			}
			defer module.Close()

			report := collectRules(module.Rules())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return writeRules(cmd.OutOrStdout(), module.Rules(), report)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the registry as JSON")
	return cmd
}

func collectRules(registry *nodevis.RuleRegistry) rulesReport {
	report := rulesReport{
		NodeTypes:   make(map[string]nodevis.NodeTypeConfig),
		Toggleables: registry.Toggleables(),
	}
	for _, nodeType := range registry.NodeTypes() {
		if cfg, ok := registry.Lookup(nodeType); ok {
			report.NodeTypes[nodeType] = cfg
		}
	}
	return report
}

func writeRules(w io.Writer, registry *nodevis.RuleRegistry, report rulesReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE TYPE\tVALUE RULES\tCONNECTION RULES\tTARGETS")
	for _, nodeType := range registry.NodeTypes() {
		cfg := report.NodeTypes[nodeType]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
			nodeType,
			len(cfg.ValueRules),
			len(cfg.ConnectionRules),
			strings.Join(cfg.Targets(), ","),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(report.Toggleables) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WIDGET\tSETTING\tDEFAULT HIDDEN")
	for _, spec := range report.Toggleables {
		fmt.Fprintf(tw, "%s\t%s\t%t\n", spec.WidgetName, spec.SettingKey, spec.DefaultHidden)
	}
	return tw.Flush()
}
