package cmd

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriscorrea/searchtemplater/internal/config"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <key>=<value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

The key should be in dot notation format (e.g., browser.mode),
but short aliases are also supported:
  browser   → browser.mode
  settings  → storage.path
  debounce  → watch.debounce_ms

Examples:
  templater config set browser.mode=command
  templater config set command="open -a Safari"
  templater config set settings=~/Dropbox/templater.json
  templater config set sample="検索したい文章"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		argument := args[0]
		parts := strings.SplitN(argument, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format: expected key=value, got %q", argument)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if key == "" {
			return fmt.Errorf("key cannot be empty")
		}

		schema := config.DefaultConfigSchema()

		canonicalKey, err := schema.ResolveKey(key)
		if err != nil {
			return err
		}

		fieldInfo, err := schema.GetFieldInfo(canonicalKey)
		if err != nil {
			return err
		}

		convertedValue, err := convertValueToType(value, fieldInfo.Type)
		if err != nil {
			return fmt.Errorf("failed to convert value %q for key %q: %w", value, canonicalKey, err)
		}

		if err := schema.ValidateValue(canonicalKey, convertedValue); err != nil {
			return fmt.Errorf("validation failed for key %q: %w", canonicalKey, err)
		}

		manager := state.manager
		manager.Viper().Set(canonicalKey, convertedValue)

		if err := manager.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		if key != canonicalKey {
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration updated: %s (%s) = %v\n", key, canonicalKey, convertedValue)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration updated: %s = %v\n", canonicalKey, convertedValue)
		}

		if canonicalKey == "browser.mode" && convertedValue == "command" && manager.Config().Browser.Command == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "browser.command is empty; set it with 'templater config set command=<program>'")
		}

		return nil
	},
}

// convertValueToType converts a string value to the schema type of a key
func convertValueToType(value string, targetType reflect.Type) (interface{}, error) {
	// quoted values are unquoted; a bare string that merely starts with a quote is kept
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'' || value[0] == '`') {
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		}
	}

	switch targetType.Kind() {
	case reflect.String:
		return value, nil

	case reflect.Bool:
		return strconv.ParseBool(strings.ToLower(value))

	case reflect.Int:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, err
		}
		return int(intVal), nil

	default:
		return nil, fmt.Errorf("unsupported type: %s", targetType.String())
	}
}

func init() {
	configCmd.AddCommand(setCmd)
}
