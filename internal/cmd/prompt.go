package cmd

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chriscorrea/searchtemplater/internal/app"
	"github.com/chriscorrea/searchtemplater/internal/data"
	"github.com/chriscorrea/searchtemplater/internal/settings"
)

// promptCmd asks for the template, text and model before opening a search
var promptCmd = &cobra.Command{
	Use:   "prompt [text...]",
	Short: "Choose a template and edit the query before searching",
	Long: `Choose a template, edit the text and pick a model interactively, then open the search.

Choosing "カスタム検索" builds a one-off template from --url and --query. With --no-input
nothing is asked and the flags alone describe the search.

Examples:
  templater prompt "量子コンピュータ"
  templater prompt --template template-2 --model gpt-5
  templater prompt --no-input --url "https://chatgpt.com/?q={TEXT}" rust generics`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		files, err := cmd.Flags().GetStringSlice("file")
		if err != nil {
			return fmt.Errorf("failed to get file flag: %w", err)
		}
		text, err := readText(args, files)
		if err != nil {
			return err
		}

		noInput, err := cmd.Flags().GetBool("no-input")
		if err != nil {
			return fmt.Errorf("failed to get no-input flag: %w", err)
		}
		ref, err := cmd.Flags().GetString("template")
		if err != nil {
			return fmt.Errorf("failed to get template flag: %w", err)
		}
		inline, err := inlineFromFlags(cmd)
		if err != nil {
			return err
		}

		return runPrompt(cmd, s, text, ref, noInput, inline)
	},
}

// runPrompt resolves the base template, asks for what the flags left open and
// executes the search
func runPrompt(cmd *cobra.Command, s settings.Settings, text, ref string, noInput bool, inline *app.InlineTemplate) error {
	var base *settings.Template
	switch {
	case ref != "":
		t, ok := findTemplate(s, ref)
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), templateNotFound(s, ref))
			return &ExitError{Response: app.Response{Reason: app.ReasonNotFound}}
		}
		base = &t
	case !noInput:
		var err error
		if base, err = askTemplate(s); err != nil {
			return err
		}
	}

	if !noInput {
		var err error
		if text, err = askText(text); err != nil {
			return err
		}
		if inline.Model == nil {
			if err := askModel(base, inline); err != nil {
				return err
			}
		}
	}

	req := app.Request{Text: text, Inline: inline}
	if base != nil {
		req.TemplateID = base.ID
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return exitFor(a.ExecuteSelection(ctxOf(cmd), req))
}

// askTemplate offers the enabled templates plus the ad hoc entry; nil means ad hoc
func askTemplate(s settings.Settings) (*settings.Template, error) {
	enabled := s.EnabledTemplates()
	options := make([]string, 0, len(enabled)+1)
	def := ""
	for _, t := range enabled {
		option := templateOption(t)
		options = append(options, option)
		if t.IsDefault {
			def = option
		}
	}
	options = append(options, app.AdHocLabel)
	if def == "" {
		def = options[0]
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	var selected string
	err := askOne(&survey.Select{
		Message: fmt.Sprintf("%s Template:", cyan("🔎")),
		Options: options,
		Default: def,
	}, &selected)
	if err != nil {
		return nil, fmt.Errorf("survey error: %w", err)
	}

	for _, t := range enabled {
		if templateOption(t) == selected {
			return &t, nil
		}
	}
	return nil, nil
}

func templateOption(t settings.Template) string {
	return fmt.Sprintf("%s (%s)", t.Label, t.ID)
}

// askText lets the user edit the text; ExecuteSelection refuses a blank result
func askText(text string) (string, error) {
	cyan := color.New(color.FgCyan).SprintFunc()
	var edited string
	err := askOne(&survey.Input{
		Message: fmt.Sprintf("%s Text:", cyan("✏️")),
		Default: text,
	}, &edited)
	if err != nil {
		return "", fmt.Errorf("survey error: %w", err)
	}
	return edited, nil
}

// askModel chooses the model, asking for the id when custom is picked
func askModel(base *settings.Template, inline *app.InlineTemplate) error {
	defs := data.MustLoad()
	options := defs.ModelSelectOptions()

	current := settings.CreateTemplateDefaults(nil).Model
	currentCustom := ""
	if base != nil {
		current, currentCustom = base.Model, base.CustomModel
	}
	def := options[0]
	for _, option := range options {
		if defs.ModelFromSelectOption(option) == current {
			def = option
		}
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	var selected string
	if err := askOne(&survey.Select{
		Message: fmt.Sprintf("%s Model:", cyan("🤖")),
		Options: options,
		Default: def,
	}, &selected); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}

	model := defs.ModelFromSelectOption(selected)
	inline.Model = &model
	if model != settings.ModelCustom {
		return nil
	}

	var custom string
	if err := askOne(&survey.Input{
		Message: fmt.Sprintf("%s Custom model id:", cyan("🧩")),
		Default: currentCustom,
	}, &custom); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}
	custom = strings.TrimSpace(custom)
	inline.CustomModel = &custom
	return nil
}

// inlineFromFlags reads the inline template flags that were given; never nil
func inlineFromFlags(cmd *cobra.Command) (*app.InlineTemplate, error) {
	flags := cmd.Flags()
	inline := &app.InlineTemplate{}

	strFlags := map[string]**string{
		"url":          &inline.URL,
		"query":        &inline.QueryTemplate,
		"model":        &inline.Model,
		"custom-model": &inline.CustomModel,
	}
	for name, target := range strFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*target = &v
	}

	boolFlags := map[string]**bool{
		"hints-search":   &inline.HintsSearch,
		"temporary-chat": &inline.TemporaryChat,
	}
	for name, target := range boolFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*target = &v
	}

	return inline, nil
}

func init() {
	addRuntimeFlags(promptCmd)
	promptCmd.Flags().String("custom-model", "", "Custom model id, used with --model custom")
	promptCmd.Flags().StringP("template", "t", "", "Start from this stored template instead of asking")
	promptCmd.Flags().Bool("no-input", false, "Do not ask anything; use the flags as given")
	promptCmd.Flags().StringSliceP("file", "f", []string{}, "Read text to search for from file(s)")

	rootCmd.AddCommand(promptCmd)
}
