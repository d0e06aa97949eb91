package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriscorrea/searchtemplater/internal/app"
	"github.com/chriscorrea/searchtemplater/internal/config"
	"github.com/chriscorrea/searchtemplater/internal/logger"
	"github.com/chriscorrea/searchtemplater/internal/registry"
	"github.com/chriscorrea/searchtemplater/internal/store"
)

// current version (hardcoded for now, could be replaced with build flags)
const version = "0.1.0"

const defaultConfigPath = "~/.templater/config.toml"

// rootCmdState holds what every command shares once flags and config are loaded
type rootCmdState struct {
	manager *config.Manager
	logger  *slog.Logger
	store   *store.FileStore
	closer  io.Closer

	// navigator replaces the configured browser mode when set
	navigator registry.Navigator
	// stdin is read for piped selection text
	stdin *os.File
}

// state is the global state instance for the root command
var state = &rootCmdState{}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return home, nil
	}

	return filepath.Join(home, path[1:]), nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "templater [text...]",
	Version: version,
	Short:   "Open ChatGPT searches from reusable URL templates",
	Long: `Templater turns text into a ChatGPT URL through stored search templates and opens it.

Without a command, the text from the arguments, --file or stdin is searched with the
default template.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return fmt.Errorf("failed to get debug flag: %w", err)
		}
		state.logger = slog.New(slog.DiscardHandler)

		state.manager = config.NewManager().WithLogger(state.logger)

		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config flag: %w", err)
		}
		if configPath == "" {
			configPath = defaultConfigPath
		}
		configPath, err = expandHomePath(configPath)
		if err != nil {
			return fmt.Errorf("failed to expand home path: %w", err)
		}

		viper := state.manager.Viper()
		flagBindings := map[string]string{
			"browser":  "browser.mode",
			"settings": "storage.path",
			"log-file": "log.file",
		}
		for flagName, viperKey := range flagBindings {
			if err := viper.BindPFlag(viperKey, cmd.Flags().Lookup(flagName)); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}

		if err := state.manager.Load(configPath); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg := state.manager.Config()

		logFile, err := expandHomePath(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("failed to expand log file path: %w", err)
		}
		state.logger, state.closer = logger.New(logger.Options{Debug: debug, File: logFile})
		state.manager.WithLogger(state.logger)

		settingsPath, err := state.manager.SettingsPath()
		if err != nil {
			return err
		}
		state.store, err = store.NewFileStore(settingsPath,
			store.WithLogger(state.logger),
			store.WithWatchDebounce(cfg.Watch.Debounce()),
		)
		if err != nil {
			return fmt.Errorf("failed to open settings: %w", err)
		}

		if state.stdin == nil {
			state.stdin = os.Stdin
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if state.closer != nil {
			return state.closer.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := cmd.Flags().GetStringSlice("file")
		if err != nil {
			return fmt.Errorf("failed to get file flag: %w", err)
		}

		// nothing to search for: show help instead of an empty-selection notice
		if len(args) == 0 && len(files) == 0 && !hasPipedInput(state.stdin) {
			return cmd.Help()
		}

		text, err := readText(args, files)
		if err != nil {
			return err
		}

		if _, err := state.store.EnsureDefaults(ctxOf(cmd)); err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return exitFor(a.ExecuteDefault(ctxOf(cmd), text))
	},
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return app.ExitOpened
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code()
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default "+defaultConfigPath+")")
	rootCmd.PersistentFlags().String("settings", "", "Path to the templates settings file")
	rootCmd.PersistentFlags().String("browser", "", "How URLs are opened (system, print, command)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to a rotating file")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable detailed debug logging")

	rootCmd.Flags().StringSliceP("file", "f", []string{}, "Read text to search for from file(s)")

	// custom usage template will hide lengthly global flags list for subcommands
	rootCmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)

	rootCmd.AddCommand(createVersionCommand())
}

// createVersionCommand creates the version subcommand
func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the current version of templater.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), "templater version ", version, "\n")
			return nil
		},
	}
}
