package cmd

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chriscorrea/searchtemplater/internal/registry"
	"github.com/chriscorrea/searchtemplater/internal/settings"
)

// modeDescriptions explains each browser mode in the setup prompt
var modeDescriptions = map[string]string{
	registry.ModeSystem:  "system  - open with the default browser",
	registry.ModePrint:   "print   - print the URL to stdout",
	registry.ModeCommand: "command - run a program with the URL",
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up templater through an interactive process",
	Long: `Set up templater:
• Choose how search URLs are opened
• Choose the default template
• Write the built-in templates if none are stored yet

Your configuration will be saved to ~/.templater/config.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cyan := color.New(color.FgCyan).SprintFunc()
		magenta := color.New(color.FgMagenta).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		errOut := cmd.ErrOrStderr()
		fmt.Fprintf(errOut, "\n%s\n", cyan("🔎 Welcome to templater"))
		fmt.Fprintf(errOut, "\n%s\n", "Let's get you set up. This will only take a minute!")

		viper := state.manager.Viper()
		cfg := state.manager.Config()

		modes := registry.GetAvailableModes()
		options := make([]string, 0, len(modes))
		current := ""
		for _, mode := range modes {
			options = append(options, modeDescriptions[mode])
			if mode == cfg.Browser.Mode {
				current = modeDescriptions[mode]
			}
		}
		if current == "" {
			current = modeDescriptions[registry.ModeSystem]
		}

		var selectedMode string
		if err := askOne(&survey.Select{
			Message: fmt.Sprintf("%s How should search URLs be opened?", cyan("🌐")),
			Options: options,
			Default: current,
		}, &selectedMode); err != nil {
			return fmt.Errorf("survey error: %w", err)
		}
		mode := strings.TrimSpace(strings.SplitN(selectedMode, "-", 2)[0])
		viper.Set("browser.mode", mode)

		if mode == registry.ModeCommand {
			var command string
			if err := askOne(&survey.Input{
				Message: fmt.Sprintf("%s Program to run (the URL is added as the last argument):", cyan("⚙️")),
				Default: cfg.Browser.Command,
			}, &command, survey.WithValidator(survey.Required)); err != nil {
				return fmt.Errorf("survey error: %w", err)
			}
			viper.Set("browser.command", strings.TrimSpace(command))
		}

		fmt.Fprintf(errOut, "\n%s Saving your configuration...\n", yellow("💾"))
		if err := state.manager.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		stored, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if err := askDefaultTemplate(cmd, stored); err != nil {
			return err
		}

		fmt.Fprintf(errOut, "\n%s All set! Your configuration has been saved to %s\n",
			green("🎉"), magenta(viper.ConfigFileUsed()))
		fmt.Fprintf(errOut, "%s Templates are stored in %s\n", green("📄"), magenta(state.store.Path()))
		fmt.Fprintf(errOut, "\n%s You can now start searching! Try: %s\n",
			cyan("💡"), magenta("templater \"大規模言語モデルとは\""))
		fmt.Fprintf(errOut, "\n%s For more options, run: %s\n\n",
			cyan("📖"), magenta("templater --help"))

		return nil
	},
}

// askDefaultTemplate offers the enabled templates as the default shortcut target
func askDefaultTemplate(cmd *cobra.Command, s settings.Settings) error {
	enabled := s.EnabledTemplates()
	if len(enabled) < 2 {
		return nil
	}

	options := make([]string, 0, len(enabled))
	def := ""
	for _, t := range enabled {
		options = append(options, templateOption(t))
		if t.IsDefault {
			def = templateOption(t)
		}
	}
	if def == "" {
		def = options[0]
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	var selected string
	if err := askOne(&survey.Select{
		Message: fmt.Sprintf("%s Default template:", cyan("⭐")),
		Options: options,
		Default: def,
	}, &selected); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}
	if selected == def {
		return nil
	}

	for _, t := range enabled {
		if templateOption(t) != selected {
			continue
		}
		_, err := updateTemplate(cmd, t.ID, func(s *settings.Settings, i int) error {
			clearDefault(s)
			s.Templates[i].IsDefault = true
			return nil
		})
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
