package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPrefsCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect and change visibility preferences",
	}
	cmd.AddCommand(newPrefsListCommand(configPath))
	cmd.AddCommand(newPrefsSetCommand(configPath))
	return cmd
}

func newPrefsListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered preferences and their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := moduleBuilder(*configPath)
			if err != nil {
				return err
			}
			defer module.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tVALUE\tREMOTE\tLABEL")
			for _, pref := range module.Preferences() {
				fmt.Fprintf(tw, "%s\t%t\t%t\t%s\n", pref.Key, pref.Value, pref.Remote, pref.Label)
			}
			return tw.Flush()
		},
	}
}

func newPrefsSetCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <bool>",
		Short: "Store a preference value",
		Long: `Store a preference value. Remote preferences are pushed to the configured
endpoint first and keep their previous value when the endpoint rejects them.
Values only outlive the process when preference persistence is configured.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}

			module, err := moduleBuilder(*configPath)
			if err != nil {
				return err
			}
			defer module.Close()

			if err := module.SetPreference(cmd.Context(), args[0], value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%t\n", args[0], module.Preference(args[0]))
			return nil
		},
	}
}
