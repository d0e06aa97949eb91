package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chriscorrea/searchtemplater/internal/config"
)

// ConfigDisplayInfo holds information for displaying config item
type ConfigDisplayInfo struct {
	Key         string
	Value       string
	Description string
	IsAlias     bool
	Target      string // the canonical path an alias points to
}

// OutputStyle contains color configuration for the list output
type OutputStyle struct {
	Writer       io.Writer
	KeyColor     *color.Color
	ValueColor   *color.Color
	GroupColor   *color.Color
	AliasColor   *color.Color
	EnableColors bool
}

// NewOutputStyle creates new output style configuration
func NewOutputStyle(writer io.Writer) *OutputStyle {
	return &OutputStyle{
		Writer:       writer,
		KeyColor:     color.New(color.FgCyan, color.Bold),
		ValueColor:   color.New(color.FgMagenta),
		GroupColor:   color.New(color.FgGreen, color.Bold),
		AliasColor:   color.New(color.FgBlue),
		EnableColors: true,
	}
}

// configGroups orders the sections of config.toml for display
var configGroups = []struct {
	Name   string
	Prefix string
}{
	{"Browser", "browser."},
	{"Storage", "storage."},
	{"Preview", "preview."},
	{"Log", "log."},
	{"Watch", "watch."},
}

// groupFor returns the display group of a canonical key
func groupFor(canonicalPath string) string {
	for _, g := range configGroups {
		if strings.HasPrefix(canonicalPath, g.Prefix) {
			return g.Name
		}
	}
	return "Other"
}

// listConfigCmd represents the config list cmd
var listConfigCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values",
	Long: `List configuration values.

By default, shows the aliases view. Use --canonical to see the complete
configuration structure with all canonical paths.

Examples:
  templater config list              # Show aliases view (default)
  templater config list --aliases    # Show aliases view (explicit)
  templater config list --canonical  # Show canonical configuration paths`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := config.DefaultConfigSchema()

		showCanonical, _ := cmd.Flags().GetBool("canonical")
		style := NewOutputStyle(cmd.OutOrStdout())

		if showCanonical {
			return displayCanonicalView(schema, style)
		}
		return displayAliasesView(schema, style)
	},
}

// displayAliasesView shows the aliases organized by section
func displayAliasesView(schema *config.ConfigSchema, style *OutputStyle) error {
	groups := map[string][]ConfigDisplayInfo{}
	for _, alias := range schema.ListAliases() {
		canonicalPath := schema.Aliases[alias]
		fieldInfo, err := schema.GetFieldInfo(canonicalPath)
		if err != nil {
			continue
		}
		group := groupFor(canonicalPath)
		groups[group] = append(groups[group], ConfigDisplayInfo{
			Key:         alias,
			Value:       getConfigValue(canonicalPath),
			Description: fieldInfo.Description,
			IsAlias:     true,
			Target:      canonicalPath,
		})
	}

	return displayGroups(style, groups, true)
}

// displayCanonicalView shows the complete config structure
func displayCanonicalView(schema *config.ConfigSchema, style *OutputStyle) error {
	groups := map[string][]ConfigDisplayInfo{}
	for _, key := range schema.ListCanonicalKeys() {
		fieldInfo, err := schema.GetFieldInfo(key)
		if err != nil {
			continue
		}
		group := groupFor(key)
		groups[group] = append(groups[group], ConfigDisplayInfo{
			Key:         key,
			Value:       getConfigValue(key),
			Description: fieldInfo.Description,
		})
	}

	return displayGroups(style, groups, false)
}

func displayGroups(style *OutputStyle, groups map[string][]ConfigDisplayInfo, withTarget bool) error {
	w := tabwriter.NewWriter(style.Writer, 0, 0, 3, ' ', 0)

	names := make([]string, 0, len(configGroups)+1)
	for _, g := range configGroups {
		names = append(names, g.Name)
	}
	names = append(names, "Other")

	for _, name := range names {
		items := groups[name]
		if len(items) == 0 {
			continue
		}
		printSectionHeader(w, style, name)
		for _, item := range items {
			printConfigRow(w, style, item, withTarget)
		}
		fmt.Fprintf(w, "\n")
	}

	return w.Flush()
}

// printSectionHeader prints a section header for grouped config items
func printSectionHeader(w io.Writer, style *OutputStyle, groupName string) {
	groupSprint := style.GroupColor.SprintFunc()
	keySprint := style.KeyColor.SprintFunc()
	valueSprint := style.ValueColor.SprintFunc()

	if !style.EnableColors {
		groupSprint = fmt.Sprint
		keySprint = fmt.Sprint
		valueSprint = fmt.Sprint
	}

	fmt.Fprintf(w, "%s\n", groupSprint(fmt.Sprintf("▶ %s", groupName)))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		keySprint("Key"),
		valueSprint("Value"),
		"Description") // plain text due to formatting/spacing issue
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		keySprint(strings.Repeat("-", 20)),
		valueSprint(strings.Repeat("-", 15)),
		strings.Repeat("-", 40))
}

// printConfigRow prints a single configuration row
func printConfigRow(w io.Writer, style *OutputStyle, item ConfigDisplayInfo, withTarget bool) {
	keySprint := style.KeyColor.SprintFunc()
	valueSprint := style.ValueColor.SprintFunc()
	aliasSprint := style.AliasColor.SprintFunc()

	if !style.EnableColors {
		keySprint = fmt.Sprint
		valueSprint = fmt.Sprint
		aliasSprint = fmt.Sprint
	}

	description := item.Description
	if withTarget && item.Target != "" {
		description = aliasSprint("→ "+item.Target) + " " + description
	}
	if len([]rune(description)) > 70 {
		description = string([]rune(description)[:67]) + "..."
	}

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		keySprint(item.Key),
		valueSprint(item.Value),
		description)
}

// getConfigValue retrieves the current value for a configuration key using Viper
func getConfigValue(canonicalPath string) string {
	value := state.manager.Viper().Get(canonicalPath)

	if value == nil {
		return "<not set>"
	}
	if str, ok := value.(string); ok && str == "" {
		return "<not set>"
	}

	result := fmt.Sprintf("%v", value)

	// truncate if too long for table display
	if runes := []rune(result); len(runes) > 40 {
		return string(runes[:37]) + "..."
	}

	return result
}

func init() {
	configCmd.AddCommand(listConfigCmd)
	listConfigCmd.Flags().Bool("aliases", false, "Show aliases view (default behavior)")
	listConfigCmd.Flags().Bool("canonical", false, "Show canonical configuration paths")
	listConfigCmd.MarkFlagsMutuallyExclusive("aliases", "canonical")
}
