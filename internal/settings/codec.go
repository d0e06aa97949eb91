package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"gopkg.in/yaml.v3"
)

// Format is a settings document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user supplied format name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q (use json or yaml)", name)
}

// FormatFromPath picks the format from a file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses a settings document into the untyped value Normalize expects.
// JSON that fails to parse is run through jsonrepair once before giving up, so
// hand-edited files with trailing commas or comments still import. Blank input
// decodes to nil, which normalizes to the defaults.
func Decode(raw []byte, format Format) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var out any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("failed to parse yaml settings: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, &out); err != nil {
			repaired, repairErr := jsonrepair.JSONRepair(string(raw))
			if repairErr != nil {
				return nil, fmt.Errorf("failed to parse json settings: %w", err)
			}
			if err := json.Unmarshal([]byte(repaired), &out); err != nil {
				return nil, fmt.Errorf("failed to parse repaired json settings: %w", err)
			}
		}
	}
	return out, nil
}

// Encode serializes settings in their stored shape, with isDefault markers
func Encode(s Settings, format Format) ([]byte, error) {
	return marshal(s, format)
}

// exportTemplate is the interchange shape written by Export; it spells the default
// marker as "default"
type exportTemplate struct {
	ID            string `json:"id" yaml:"id"`
	Label         string `json:"label" yaml:"label"`
	URL           string `json:"url" yaml:"url"`
	QueryTemplate string `json:"queryTemplate" yaml:"queryTemplate"`
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	HintsSearch   bool   `json:"hintsSearch" yaml:"hintsSearch"`
	TemporaryChat bool   `json:"temporaryChat" yaml:"temporaryChat"`
	Model         string `json:"model" yaml:"model"`
	CustomModel   string `json:"customModel,omitempty" yaml:"customModel,omitempty"`
	Default       bool   `json:"default" yaml:"default"`
}

type exportSettings struct {
	Templates       []exportTemplate `json:"templates" yaml:"templates"`
	HardLimit       int              `json:"hardLimit" yaml:"hardLimit"`
	ParentMenuTitle string           `json:"parentMenuTitle" yaml:"parentMenuTitle"`
}

// Export serializes settings for sharing between installations
func Export(s Settings, format Format) ([]byte, error) {
	doc := exportSettings{
		Templates:       make([]exportTemplate, 0, len(s.Templates)),
		HardLimit:       s.HardLimit,
		ParentMenuTitle: s.ParentMenuTitle,
	}
	for _, t := range s.Templates {
		doc.Templates = append(doc.Templates, exportTemplate{
			ID:            t.ID,
			Label:         t.Label,
			URL:           t.URL,
			QueryTemplate: t.QueryTemplate,
			Enabled:       t.Enabled,
			HintsSearch:   t.HintsSearch,
			TemporaryChat: t.TemporaryChat,
			Model:         t.Model,
			CustomModel:   t.CustomModel,
			Default:       t.IsDefault,
		})
	}
	return marshal(doc, format)
}

func marshal(v any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode yaml settings: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml settings: %w", err)
		}
		return buf.Bytes(), nil
	default:
		// urls routinely contain & which must stay readable in the file
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode json settings: %w", err)
		}
		return buf.Bytes(), nil
	}
}
