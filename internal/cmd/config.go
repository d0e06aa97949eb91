package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage templater configuration",
	Long: `Manage templater configuration settings. This command provides subcommands
to view and modify configuration values. Templates themselves live in the
settings file and are managed with 'templater templates'.

Examples:
  templater config                       # Show configuration status
  templater config set browser=print     # Print URLs instead of opening them
  templater config set browser.command="firefox --new-tab"
  templater config set debounce=500
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		// show configuration information when no subcommand is provided
		out := cmd.OutOrStdout()
		cfg := state.manager.Config()

		fmt.Fprintln(out, "Configuration loaded successfully")
		if used := state.manager.Viper().ConfigFileUsed(); used != "" {
			fmt.Fprintf(out, "Config file: %s\n", used)
		}
		if state.store != nil {
			fmt.Fprintf(out, "Settings file: %s\n", state.store.Path())
		}
		fmt.Fprintf(out, "Browser mode: %s\n", cfg.Browser.Mode)
		if cfg.Browser.Command != "" {
			fmt.Fprintf(out, "Browser command: %s\n", cfg.Browser.Command)
		}
		if cfg.Log.File != "" {
			fmt.Fprintf(out, "Log file: %s\n", cfg.Log.File)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
