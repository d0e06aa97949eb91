package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chriscorrea/searchtemplater/internal/data"
	"github.com/chriscorrea/searchtemplater/internal/settings"
)

// templatesCmd groups the template management commands
var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template", "t"},
	Short:   "Manage search templates",
	Long: `Manage the stored search templates.

Examples:
  templater templates list
  templater templates add --label "Docs" --url "https://chatgpt.com/?q={TEXT}" --query "docs for {TEXT}"
  templater templates set-default template-2`,
}

var listTemplatesCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		enabledOnly, err := cmd.Flags().GetBool("enabled")
		if err != nil {
			return fmt.Errorf("failed to get enabled flag: %w", err)
		}

		templates := s.Templates
		if enabledOnly {
			templates = s.EnabledTemplates()
		}
		renderTemplateTable(cmd.OutOrStdout(), templates)

		fmt.Fprintf(cmd.OutOrStdout(), "\nHard limit: %d  Menu title: %s\n", s.HardLimit, s.ParentMenuTitle)
		return nil
	},
}

// renderTemplateTable prints templates in the borderless plandex-style table
func renderTemplateTable(w io.Writer, templates []settings.Template) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "ID", "Label", "Enabled", "Model", "Flags", "URL"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	for _, t := range templates {
		marker := ""
		if t.IsDefault {
			marker = green("*")
		}
		model := settings.ResolveModelID(t)
		if t.Model == settings.ModelCustom {
			model = "custom:" + model
		}
		table.Append([]string{
			marker,
			t.ID,
			t.Label,
			strconv.FormatBool(t.Enabled),
			model,
			templateFlags(t),
			t.URL,
		})
	}
	table.Render()
}

func templateFlags(t settings.Template) string {
	var flags []string
	if t.HintsSearch {
		flags = append(flags, "hints")
	}
	if t.TemporaryChat {
		flags = append(flags, "temporary")
	}
	return strings.Join(flags, ",")
}

var showTemplateCmd = &cobra.Command{
	Use:   "show <template>",
	Short: "Show one template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		t, ok := findTemplate(s, args[0])
		if !ok {
			return templateNotFound(s, args[0])
		}

		encoded, err := yaml.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode template: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(encoded))
		printWarnings(cmd, t)
		return nil
	},
}

var addTemplateCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a template",
	Long: `Add a template. Fields not given start from the built-in template; with
--interactive the fields are asked for one by one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := templateOverridesFromFlags(cmd)
		if err != nil {
			return err
		}

		interactive, err := cmd.Flags().GetBool("interactive")
		if err != nil {
			return fmt.Errorf("failed to get interactive flag: %w", err)
		}
		if interactive {
			if err := askTemplateFields(overrides); err != nil {
				return err
			}
		}

		// new templates only become the default when asked to
		if overrides.IsDefault == nil {
			notDefault := false
			overrides.IsDefault = &notDefault
		}
		created := settings.CreateTemplateDefaults(overrides)

		if _, err := state.store.Update(ctxOf(cmd), func(s settings.Settings) (settings.Settings, error) {
			if created.IsDefault {
				clearDefault(&s)
			}
			s.Templates = append(s.Templates, created)
			return s, nil
		}); err != nil {
			return fmt.Errorf("failed to add template: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added template %s (%s)\n", created.ID, created.Label)
		printWarnings(cmd, created)
		return nil
	},
}

// templateOverridesFromFlags reads the template field flags that were given
func templateOverridesFromFlags(cmd *cobra.Command) (*settings.TemplateOverrides, error) {
	flags := cmd.Flags()
	o := &settings.TemplateOverrides{}

	strFlags := map[string]**string{
		"label":        &o.Label,
		"url":          &o.URL,
		"query":        &o.QueryTemplate,
		"model":        &o.Model,
		"custom-model": &o.CustomModel,
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
		"hints-search":   &o.HintsSearch,
		"temporary-chat": &o.TemporaryChat,
		"default":        &o.IsDefault,
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

	if flags.Changed("disabled") {
		disabled, err := flags.GetBool("disabled")
		if err != nil {
			return nil, fmt.Errorf("failed to get disabled flag: %w", err)
		}
		enabled := !disabled
		o.Enabled = &enabled
	}

	return o, nil
}

// askTemplateFields fills the fields not already given by flags
func askTemplateFields(o *settings.TemplateOverrides) error {
	cyan := color.New(color.FgCyan).SprintFunc()
	blueprint := settings.CreateTemplateDefaults(nil)

	askString := func(target **string, message, def string) error {
		if *target != nil {
			return nil
		}
		var answer string
		if err := askOne(&survey.Input{Message: cyan(message), Default: def}, &answer); err != nil {
			return fmt.Errorf("survey error: %w", err)
		}
		*target = &answer
		return nil
	}
	askBool := func(target **bool, message string, def bool) error {
		if *target != nil {
			return nil
		}
		var answer bool
		if err := askOne(&survey.Confirm{Message: cyan(message), Default: def}, &answer); err != nil {
			return fmt.Errorf("survey error: %w", err)
		}
		*target = &answer
		return nil
	}

	if err := askString(&o.Label, "Label:", blueprint.Label); err != nil {
		return err
	}
	if err := askString(&o.URL, "URL ({TEXT} is replaced by the query):", blueprint.URL); err != nil {
		return err
	}
	if err := askString(&o.QueryTemplate, "Query template:", blueprint.QueryTemplate); err != nil {
		return err
	}
	if err := askBool(&o.HintsSearch, "Add hints=search?", blueprint.HintsSearch); err != nil {
		return err
	}
	if err := askBool(&o.TemporaryChat, "Use a temporary chat?", blueprint.TemporaryChat); err != nil {
		return err
	}

	if o.Model == nil {
		defs := data.MustLoad()
		options := defs.ModelSelectOptions()
		var selected string
		if err := askOne(&survey.Select{Message: cyan("Model:"), Options: options, Default: options[0]}, &selected); err != nil {
			return fmt.Errorf("survey error: %w", err)
		}
		model := defs.ModelFromSelectOption(selected)
		o.Model = &model
	}
	if *o.Model == settings.ModelCustom {
		if err := askString(&o.CustomModel, "Custom model id:", ""); err != nil {
			return err
		}
	}
	return nil
}

// clearDefault unmarks every template
func clearDefault(s *settings.Settings) {
	for i := range s.Templates {
		s.Templates[i].IsDefault = false
	}
}

// updateTemplate applies fn to the template named by ref and saves
func updateTemplate(cmd *cobra.Command, ref string, fn func(s *settings.Settings, i int) error) (settings.Template, error) {
	var id string
	updated, err := state.store.Update(ctxOf(cmd), func(s settings.Settings) (settings.Settings, error) {
		t, ok := findTemplate(s, ref)
		if !ok {
			return s, templateNotFound(s, ref)
		}
		id = t.ID
		for i := range s.Templates {
			if s.Templates[i].ID == id {
				if err := fn(&s, i); err != nil {
					return s, err
				}
				break
			}
		}
		return s, nil
	})
	if err != nil {
		return settings.Template{}, err
	}
	t, _ := updated.FindTemplate(id)
	return t, nil
}

var removeTemplateCmd = &cobra.Command{
	Use:     "remove <template>",
	Aliases: []string{"rm"},
	Short:   "Remove a template",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var removed settings.Template
		_, err := state.store.Update(ctxOf(cmd), func(s settings.Settings) (settings.Settings, error) {
			t, ok := findTemplate(s, args[0])
			if !ok {
				return s, templateNotFound(s, args[0])
			}
			if len(s.Templates) == 1 {
				return s, fmt.Errorf("cannot remove the last template; use 'templater reset' to restore the defaults")
			}
			removed = t
			kept := s.Templates[:0]
			for _, candidate := range s.Templates {
				if candidate.ID != t.ID {
					kept = append(kept, candidate)
				}
			}
			s.Templates = kept
			return s, nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed template %s (%s)\n", removed.ID, removed.Label)
		return nil
	},
}

var setDefaultTemplateCmd = &cobra.Command{
	Use:   "set-default <template>",
	Short: "Make a template the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := updateTemplate(cmd, args[0], func(s *settings.Settings, i int) error {
			clearDefault(s)
			s.Templates[i].IsDefault = true
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default template: %s (%s)\n", t.ID, t.Label)
		if !t.Enabled {
			fmt.Fprintf(cmd.ErrOrStderr(), "template %s is disabled; enable it to use it as the default\n", t.ID)
		}
		return nil
	},
}

// newToggleCommand builds the enable and disable commands
func newToggleCommand(use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <template>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := updateTemplate(cmd, args[0], func(s *settings.Settings, i int) error {
				s.Templates[i].Enabled = enabled
				return nil
			})
			if err != nil {
				return err
			}
			status := "disabled"
			if t.Enabled {
				status = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template %s (%s) %s\n", t.ID, t.Label, status)
			return nil
		},
	}
}

func init() {
	listTemplatesCmd.Flags().Bool("enabled", false, "Only list enabled templates")

	addTemplateCmd.Flags().String("label", "", "Template label")
	addTemplateCmd.Flags().String("url", "", "Template URL; {TEXT} is replaced by the encoded query")
	addTemplateCmd.Flags().String("query", "", "Query template; {TEXT} is replaced by the selected text")
	addTemplateCmd.Flags().String("model", "", "Model id")
	addTemplateCmd.Flags().String("custom-model", "", "Custom model id, used with --model custom")
	addTemplateCmd.Flags().Bool("hints-search", false, "Add hints=search to the URL")
	addTemplateCmd.Flags().Bool("temporary-chat", false, "Add temporary-chat=true to the URL")
	addTemplateCmd.Flags().Bool("disabled", false, "Add the template disabled")
	addTemplateCmd.Flags().Bool("default", false, "Make the template the default")
	addTemplateCmd.Flags().BoolP("interactive", "i", false, "Ask for the fields not given as flags")

	templatesCmd.AddCommand(listTemplatesCmd)
	templatesCmd.AddCommand(showTemplateCmd)
	templatesCmd.AddCommand(addTemplateCmd)
	templatesCmd.AddCommand(removeTemplateCmd)
	templatesCmd.AddCommand(setDefaultTemplateCmd)
	templatesCmd.AddCommand(newToggleCommand("enable", "Enable a template", true))
	templatesCmd.AddCommand(newToggleCommand("disable", "Disable a template", false))

	rootCmd.AddCommand(templatesCmd)
}
