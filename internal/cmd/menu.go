package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chriscorrea/searchtemplater/internal/app"
	"github.com/chriscorrea/searchtemplater/internal/menu"
	"github.com/chriscorrea/searchtemplater/internal/settings"
)

// menuCmd prints the selection menu built from the enabled templates
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Show the selection menu",
	Long: `Show the selection menu: the parent entry, one entry per enabled template,
then the prompt and edit entries. Menu ids can be passed to "templater menu click".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return fmt.Errorf("failed to get json flag: %w", err)
		}
		return printMenu(cmd.OutOrStdout(), s, asJSON)
	},
}

// printMenu writes the menu for s as a tree or as JSON
func printMenu(w io.Writer, s settings.Settings, asJSON bool) error {
	items := menu.Build(s)

	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(items)
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	for i, item := range items {
		if item.Kind == menu.KindParent {
			fmt.Fprintf(w, "%s  %s\n", bold(item.Title), faint(item.ID))
			continue
		}
		branch := "├─"
		if i == len(items)-1 {
			branch = "└─"
		}
		fmt.Fprintf(w, "%s %s  %s\n", branch, item.Title, faint(item.ID))
	}
	return nil
}

// menuClickCmd performs what selecting a menu entry does
var menuClickCmd = &cobra.Command{
	Use:   "click <menu-id> [text...]",
	Short: "Run a menu entry for the given text",
	Long: `Run a menu entry as if it was selected with the given text.

Template entries open a search, the prompt entry starts the interactive prompt and
the edit entry shows where the templates are stored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, templateID := menu.Classify(args[0])
		if kind == menu.KindNone || kind == menu.KindParent {
			return fmt.Errorf("menu entry %q cannot be run. Use 'templater menu' to see entries", args[0])
		}

		if kind == menu.KindEdit {
			fmt.Fprintln(cmd.OutOrStdout(), state.store.Path())
			fmt.Fprintln(cmd.ErrOrStderr(), "Edit the file above, or use 'templater templates' to change templates")
			return nil
		}

		files, err := cmd.Flags().GetStringSlice("file")
		if err != nil {
			return fmt.Errorf("failed to get file flag: %w", err)
		}
		text, err := readText(args[1:], files)
		if err != nil {
			return err
		}

		if kind == menu.KindPrompt {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return runPrompt(cmd, s, text, "", false, &app.InlineTemplate{})
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return exitFor(a.ExecuteSelection(ctxOf(cmd), app.Request{TemplateID: templateID, Text: text}))
	},
}

// watchCmd reprints the menu whenever the settings file changes
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the menu again whenever the templates change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return fmt.Errorf("failed to get json flag: %w", err)
		}

		out := cmd.OutOrStdout()
		if err := printMenu(out, s, asJSON); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(ctxOf(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", state.store.Path())
		return state.store.Observe(ctx, func(updated settings.Settings) {
			state.logger.Debug("settings changed", "templates", len(updated.Templates))
			if !asJSON {
				fmt.Fprintln(out)
			}
			if err := printMenu(out, updated, asJSON); err != nil {
				state.logger.Warn("failed to print menu", "error", err)
			}
		})
	},
}

func init() {
	menuCmd.Flags().Bool("json", false, "Print the menu as JSON")
	menuClickCmd.Flags().StringSliceP("file", "f", []string{}, "Read text to search for from file(s)")
	watchCmd.Flags().Bool("json", false, "Print the menu as JSON")

	menuCmd.AddCommand(menuClickCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(watchCmd)
}
