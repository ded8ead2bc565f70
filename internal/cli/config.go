package cli

import (
	"fmt"

	"github.com/inventree/plugin-creator/internal/branding"
	"github.com/inventree/plugin-creator/internal/config"
	"github.com/inventree/plugin-creator/internal/project"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage remembered answers",
	Long: `Read and write the answers remembered between runs, stored at
~/` + branding.HomeDir() + `/config.yaml. Keys use dotted form, e.g. frontend.enabled.
Environment variables such as ` + branding.EnvVar("AUTHOR_NAME") + ` override stored values.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := configStore()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), store.Path())
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value, or every value without a key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := configStore()
		if err != nil {
			return err
		}
		base := project.Defaults(buildVersion)
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			value, err := store.Get(base, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, value)
			return nil
		}

		for _, key := range config.Keys() {
			value, err := store.Get(base, key)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s = %s\n", key, value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := configStore()
		if err != nil {
			return err
		}
		key, value := args[0], args[1]
		if err := store.Set(project.Defaults(buildVersion), key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget every remembered answer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := configStore()
		if err != nil {
			return err
		}
		if err := store.Reset(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", store.Path())
		return nil
	},
}
