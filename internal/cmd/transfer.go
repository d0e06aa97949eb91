package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/chriscorrea/searchtemplater/internal/settings"
)

// importCmd replaces the stored settings with a settings document
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the templates with a JSON or YAML settings file",
	Long: `Replace the stored settings with the contents of a JSON or YAML file.

The document is repaired the same way stored settings are: unknown fields are
dropped, invalid values fall back to the defaults and exactly one template ends
up as the default. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		formatName, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		format := settings.FormatFromPath(path)
		if formatName != "" {
			if format, err = settings.ParseFormat(formatName); err != nil {
				return err
			}
		}

		var raw []byte
		if path == "-" {
			if state.stdin == nil {
				return fmt.Errorf("no stdin to import from")
			}
			raw, err = readAll(state.stdin)
		} else {
			raw, err = os.ReadFile(path)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		imported, err := state.store.Import(ctxOf(cmd), bytes.NewReader(raw), format)
		if err != nil {
			return fmt.Errorf("failed to import settings: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d templates into %s\n", len(imported.Templates), state.store.Path())
		for _, t := range imported.Templates {
			printWarnings(cmd, t)
		}
		return nil
	},
}

func readAll(f *os.File) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// exportCmd writes the stored settings in the interchange format
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the templates as JSON or YAML",
	Long: `Write the stored settings as JSON or YAML, to a file or to stdout.

Examples:
  templater export > templates.json
  templater export templates.yaml
  templater export --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}

		format := settings.FormatJSON
		if len(args) == 1 {
			format = settings.FormatFromPath(args[0])
		}
		if formatName != "" {
			if format, err = settings.ParseFormat(formatName); err != nil {
				return err
			}
		}

		var buf bytes.Buffer
		if err := state.store.Export(ctxOf(cmd), &buf, format); err != nil {
			return fmt.Errorf("failed to export settings: %w", err)
		}

		if len(args) == 0 {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(args[0], buf.Bytes(), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported settings to %s\n", args[0])
		return nil
	},
}

// resetCmd restores the built-in templates
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the built-in templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return fmt.Errorf("failed to get yes flag: %w", err)
		}

		if !yes {
			confirmed := false
			if err := askOne(&survey.Confirm{
				Message: "Replace all templates with the built-in ones?",
				Default: false,
			}, &confirmed); err != nil {
				return fmt.Errorf("survey error: %w", err)
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled")
				return nil
			}
		}

		restored, err := state.store.Reset(ctxOf(cmd))
		if err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d built-in templates\n", len(restored.Templates))
		return nil
	},
}

func init() {
	importCmd.Flags().String("format", "", "Document format: json or yaml (default from the file extension)")
	exportCmd.Flags().String("format", "", "Document format: json or yaml (default json, or from the file extension)")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
}
