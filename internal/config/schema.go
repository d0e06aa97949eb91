package config

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/chriscorrea/searchtemplater/internal/registry"
)

// ConfigFieldInfo contains metadata about a configuration field
type ConfigFieldInfo struct {
	Type        reflect.Type
	Description string
	Default     interface{}
	Validation  func(interface{}) error
}

// ConfigSchema holds the registry of valid configuration paths and aliases
type ConfigSchema struct {
	ValidPaths map[string]ConfigFieldInfo
	Aliases    map[string]string
}

// validateIntRange returns a validation function for int values within a range
func validateIntRange(min, max int) func(interface{}) error {
	return func(value interface{}) error {
		if v, ok := value.(int); ok {
			if v < min || v > max {
				return fmt.Errorf("value must be between %d and %d", min, max)
			}
			return nil
		}
		return fmt.Errorf("expected int, got %T", value)
	}
}

// validateOneOf returns a validation function for string values from a fixed set
func validateOneOf(allowed ...string) func(interface{}) error {
	return func(value interface{}) error {
		if v, ok := value.(string); ok {
			if !slices.Contains(allowed, v) {
				return fmt.Errorf("value must be one of: %s", strings.Join(allowed, ", "))
			}
			return nil
		}
		return fmt.Errorf("expected string, got %T", value)
	}
}

// DefaultConfigSchema returns the default configuration schema
func DefaultConfigSchema() *ConfigSchema {
	return &ConfigSchema{
		ValidPaths: map[string]ConfigFieldInfo{
			"storage.path": {
				Type:        reflect.TypeOf(""),
				Description: "Settings file holding the search templates (empty: settings.json beside config.toml)",
				Default:     "",
			},
			"browser.mode": {
				Type:        reflect.TypeOf(""),
				Description: "How URLs are opened (system/print/command)",
				Default:     registry.ModeSystem,
				Validation:  validateOneOf(registry.GetAvailableModes()...),
			},
			"browser.command": {
				Type:        reflect.TypeOf(""),
				Description: "Program run in command mode; the URL is its last argument",
				Default:     "",
			},
			"preview.sample_text": {
				Type:        reflect.TypeOf(""),
				Description: "Text substituted when previewing a template",
				Default:     "日本の大規模言語モデル事情",
			},
			"log.file": {
				Type:        reflect.TypeOf(""),
				Description: "Rotating log file (empty disables file logging)",
				Default:     "",
			},
			"watch.debounce_ms": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Milliseconds to wait for settings writes to settle before reloading",
				Default:     200,
				Validation:  validateIntRange(0, 10000),
			},
		},

		Aliases: map[string]string{
			"settings": "storage.path",
			"storage":  "storage.path",

			"browser": "browser.mode",
			"mode":    "browser.mode",
			"command": "browser.command",

			"sample":      "preview.sample_text",
			"sample-text": "preview.sample_text",

			"log-file": "log.file",

			"debounce": "watch.debounce_ms",
		},
	}
}

// ResolveKey resolves an alias to its canonical path or returns the path if already canonical
func (s *ConfigSchema) ResolveKey(key string) (string, error) {
	if canonicalPath, exists := s.Aliases[key]; exists {
		return canonicalPath, nil
	}

	if _, exists := s.ValidPaths[key]; exists {
		return key, nil
	}

	suggestions := s.FindSimilarKeys(key)
	if key != "" && len(suggestions) > 0 {
		return "", fmt.Errorf("invalid config key %q. Did you mean one of: %s", key, strings.Join(suggestions, ", "))
	}

	return "", fmt.Errorf("invalid config key %q. Use 'templater config list' to see valid keys", key)
}

// ValidateValue validates a value against the field's type and validation rules
func (s *ConfigSchema) ValidateValue(path string, value interface{}) error {
	fieldInfo, exists := s.ValidPaths[path]
	if !exists {
		return fmt.Errorf("unknown config path: %s", path)
	}

	valueType := reflect.TypeOf(value)
	if valueType != fieldInfo.Type {
		return fmt.Errorf("expected %s, got %v", fieldInfo.Type.String(), valueType)
	}

	if fieldInfo.Validation != nil {
		return fieldInfo.Validation(value)
	}

	return nil
}

// GetFieldInfo returns information about a configuration field
func (s *ConfigSchema) GetFieldInfo(path string) (ConfigFieldInfo, error) {
	fieldInfo, exists := s.ValidPaths[path]
	if !exists {
		return ConfigFieldInfo{}, fmt.Errorf("unknown config path: %s", path)
	}
	return fieldInfo, nil
}

// ListAllKeys returns all valid configuration keys (canonical paths and aliases)
func (s *ConfigSchema) ListAllKeys() []string {
	keys := append(s.ListCanonicalKeys(), s.ListAliases()...)
	sort.Strings(keys)
	return keys
}

// ListCanonicalKeys returns only the canonical configuration paths
func (s *ConfigSchema) ListCanonicalKeys() []string {
	var keys []string
	for path := range s.ValidPaths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	return keys
}

// ListAliases returns only the alias keys
func (s *ConfigSchema) ListAliases() []string {
	var aliases []string
	for alias := range s.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// AliasesFor returns the sorted aliases pointing at path
func (s *ConfigSchema) AliasesFor(path string) []string {
	var aliases []string
	for alias, target := range s.Aliases {
		if target == path {
			aliases = append(aliases, alias)
		}
	}
	sort.Strings(aliases)
	return aliases
}

// FindSimilarKeys finds keys similar to the input using simple string matching
func (s *ConfigSchema) FindSimilarKeys(key string) []string {
	if key == "" {
		return nil
	}

	var suggestions []string
	lowerKey := strings.ToLower(key)

	for _, path := range s.ListCanonicalKeys() {
		segments := strings.Split(path, ".")
		leaf := strings.ToLower(segments[len(segments)-1])
		if strings.Contains(strings.ToLower(path), lowerKey) || strings.Contains(lowerKey, leaf) {
			suggestions = append(suggestions, path)
		}
	}

	for _, alias := range s.ListAliases() {
		if strings.Contains(alias, lowerKey) || strings.Contains(lowerKey, alias) {
			suggestions = append(suggestions, alias)
		}
	}

	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}

	return suggestions
}
