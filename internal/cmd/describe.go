package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriscorrea/searchtemplater/internal/config"
	"github.com/chriscorrea/searchtemplater/internal/registry"
)

// describeConfigCmd represents the config describe command
var describeConfigCmd = &cobra.Command{
	Use:   "describe <key>",
	Short: "Show detailed information about a configuration key",
	Long: `Show detailed information about a configuration key: its type, description,
default and current value, and the aliases that point at it.

The key can be either a full canonical path or an alias.

Examples:
  templater config describe browser
  templater config describe watch.debounce_ms`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		schema := config.DefaultConfigSchema()

		canonicalKey, err := schema.ResolveKey(key)
		if err != nil {
			return err
		}

		fieldInfo, err := schema.GetFieldInfo(canonicalKey)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration Key: %s\n", canonicalKey)
		if key != canonicalKey {
			fmt.Fprintf(out, "Alias: %s\n", key)
		}

		fmt.Fprintf(out, "Type: %s\n", fieldInfo.Type.String())
		fmt.Fprintf(out, "Description: %s\n", fieldInfo.Description)
		fmt.Fprintf(out, "Default: %v\n", formatDefault(fieldInfo.Default))
		// note getConfigValue is in list.go
		fmt.Fprintf(out, "Current Value: %v\n", getConfigValue(canonicalKey))
		fmt.Fprintf(out, "Environment: %s_%s\n", config.EnvPrefix, strings.ToUpper(strings.ReplaceAll(canonicalKey, ".", "_")))

		if fieldInfo.Validation != nil {
			fmt.Fprintf(out, "\nValidation: custom validation rules apply\n")
		}
		if canonicalKey == "browser.mode" {
			fmt.Fprintf(out, "Allowed: %s\n", strings.Join(registry.GetAvailableModes(), ", "))
		}

		var relatedAliases []string
		for _, alias := range schema.AliasesFor(canonicalKey) {
			if alias != key {
				relatedAliases = append(relatedAliases, alias)
			}
		}
		if len(relatedAliases) > 0 {
			fmt.Fprintf(out, "\nAliases: %s\n", strings.Join(relatedAliases, ", "))
		}

		return nil
	},
}

func formatDefault(v interface{}) string {
	if s, ok := v.(string); ok && s == "" {
		return "<empty>"
	}
	return fmt.Sprintf("%v", v)
}

func init() {
	configCmd.AddCommand(describeConfigCmd)
}
