// Command nodevis inspects visibility rules and previews how they apply to a
// graph fixture without a running editor.
package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-nodevis"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// moduleBuilder is swapped in tests.
var moduleBuilder = buildModule

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "nodevis",
		Short: "Widget visibility rules for node graphs",
		Long: `nodevis hides and shows node widgets based on widget values, connected
inputs, per-node overrides and global hide-by-default preferences.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to builtin rules, session only)")

	rootCmd.AddCommand(newRulesCommand(&configPath))
	rootCmd.AddCommand(newPreviewCommand(&configPath))
	rootCmd.AddCommand(newPrefsCommand(&configPath))
	return rootCmd
}

func buildModule(configPath string) (*nodevis.Module, error) {
	cfg := nodevis.DefaultConfig()
	if configPath != "" {
		loaded, err := nodevis.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	module, err := nodevis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("build module: %w", err)
	}
	return module, nil
}
