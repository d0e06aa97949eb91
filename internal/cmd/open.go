package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chriscorrea/searchtemplater/internal/app"
	"github.com/chriscorrea/searchtemplater/internal/settings"
	"github.com/chriscorrea/searchtemplater/internal/verbose"
)

// openCmd runs a stored template
var openCmd = &cobra.Command{
	Use:   "open <template> [text...]",
	Short: "Open a search with a stored template",
	Long: `Open a search with a stored template, named by id or label.

Runtime flags override the template for this search only.

Examples:
  templater open template-1 "large language models"
  echo "選択したテキスト" | templater open 標準検索 --hints-search
  templater open template-1 --model gpt-5 --dry-run what is rust`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		t, ok := findTemplate(s, args[0])
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), templateNotFound(s, args[0]))
			return &ExitError{Response: app.Response{Reason: app.ReasonNotFound}}
		}

		files, err := cmd.Flags().GetStringSlice("file")
		if err != nil {
			return fmt.Errorf("failed to get file flag: %w", err)
		}
		text, err := readText(args[1:], files)
		if err != nil {
			return err
		}

		overrides, err := overridesFromFlags(cmd)
		if err != nil {
			return err
		}

		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return fmt.Errorf("failed to get dry-run flag: %w", err)
		}
		if dryRun {
			return printPlan(cmd, t, text, s.HardLimit, overrides)
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return exitFor(a.ExecuteSelection(ctxOf(cmd), app.Request{
			TemplateID: t.ID,
			Text:       text,
			Overrides:  overrides,
		}))
	},
}

// previewCmd shows what a template produces without opening it
var previewCmd = &cobra.Command{
	Use:   "preview <template> [text...]",
	Short: "Show the URL a template builds",
	Long: `Show the query, encoded query and URL a template builds, with its warnings.

Without text, the configured sample text (preview.sample_text) is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		t, ok := findTemplate(s, args[0])
		if !ok {
			return templateNotFound(s, args[0])
		}

		text, err := readText(args[1:], nil)
		if err != nil {
			return err
		}
		if text == "" {
			text = state.manager.Config().Preview.SampleText
		}

		overrides, err := overridesFromFlags(cmd)
		if err != nil {
			return err
		}

		urlOnly, err := cmd.Flags().GetBool("url-only")
		if err != nil {
			return fmt.Errorf("failed to get url-only flag: %w", err)
		}
		if urlOnly {
			plan, err := app.PlanExecution(t, text, s.HardLimit, overrides)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), plan.URL)
			return nil
		}

		return printPlan(cmd, t, text, s.HardLimit, overrides)
	},
}

// printPlan renders the planned execution for t
func printPlan(cmd *cobra.Command, t settings.Template, text string, hardLimit int, overrides *app.Overrides) error {
	plan, err := app.PlanExecution(t, text, hardLimit, overrides)
	if err != nil {
		return err
	}
	verbose.PrintPlan(plan, settings.CollectWarnings(t), verbose.DefaultOutputConfig(cmd.OutOrStdout()))
	return nil
}

// addRuntimeFlags registers the per-search override flags
func addRuntimeFlags(c *cobra.Command) {
	c.Flags().Bool("hints-search", false, "Add hints=search to the URL")
	c.Flags().Bool("temporary-chat", false, "Add temporary-chat=true to the URL")
	c.Flags().String("model", "", "Model id for this search")
	c.Flags().String("url", "", "Template URL for this search")
	c.Flags().String("query", "", "Query template for this search")
}

// overridesFromFlags reads only the runtime flags that were given
func overridesFromFlags(cmd *cobra.Command) (*app.Overrides, error) {
	flags := cmd.Flags()
	var o app.Overrides
	var runtime app.RuntimeOverrides
	hasRuntime := false

	if flags.Changed("hints-search") {
		v, err := flags.GetBool("hints-search")
		if err != nil {
			return nil, err
		}
		runtime.HintsSearch = &v
		hasRuntime = true
	}
	if flags.Changed("temporary-chat") {
		v, err := flags.GetBool("temporary-chat")
		if err != nil {
			return nil, err
		}
		runtime.TemporaryChat = &v
		hasRuntime = true
	}
	if flags.Changed("model") {
		v, err := flags.GetString("model")
		if err != nil {
			return nil, err
		}
		runtime.Model = &v
		hasRuntime = true
	}
	if flags.Changed("url") {
		v, err := flags.GetString("url")
		if err != nil {
			return nil, err
		}
		o.TemplateURL = &v
	}
	if flags.Changed("query") {
		v, err := flags.GetString("query")
		if err != nil {
			return nil, err
		}
		o.QueryTemplate = &v
	}

	if hasRuntime {
		o.Runtime = &runtime
	}
	if o == (app.Overrides{}) {
		return nil, nil
	}
	return &o, nil
}

func init() {
	addRuntimeFlags(openCmd)
	openCmd.Flags().StringSliceP("file", "f", []string{}, "Read text to search for from file(s)")
	openCmd.Flags().Bool("dry-run", false, "Show the URL instead of opening it")

	addRuntimeFlags(previewCmd)
	previewCmd.Flags().Bool("url-only", false, "Print only the URL")

	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(previewCmd)
}
