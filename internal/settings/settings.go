// Package settings models the persisted template collection and repairs whatever is
// stored into a well-formed Settings value.
package settings

import (
	"strings"

	"github.com/chriscorrea/searchtemplater/internal/data"
	"github.com/chriscorrea/searchtemplater/internal/template"
)

// ModelCustom is the model sentinel meaning "use CustomModel"
const ModelCustom = "custom"

// MissingPlaceholderWarning is reported for templates that never use the selected text
const MissingPlaceholderWarning = "プレースホルダ（{TEXT} または {選択した文字列}）がテンプレートに含まれていません。"

// Template is one named search template
type Template struct {
	ID            string `json:"id" yaml:"id"`
	Label         string `json:"label" yaml:"label"`
	URL           string `json:"url" yaml:"url"`
	QueryTemplate string `json:"queryTemplate" yaml:"queryTemplate"`
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	HintsSearch   bool   `json:"hintsSearch" yaml:"hintsSearch"`
	TemporaryChat bool   `json:"temporaryChat" yaml:"temporaryChat"`
	Model         string `json:"model" yaml:"model"`
	// CustomModel is only meaningful when Model is ModelCustom
	CustomModel string `json:"customModel,omitempty" yaml:"customModel,omitempty"`
	IsDefault   bool   `json:"isDefault" yaml:"isDefault"`
}

// Settings is the whole persisted configuration
type Settings struct {
	Templates       []Template `json:"templates" yaml:"templates"`
	HardLimit       int        `json:"hardLimit" yaml:"hardLimit"`
	ParentMenuTitle string     `json:"parentMenuTitle" yaml:"parentMenuTitle"`
}

// DefaultSettings returns a fresh copy of the built-in settings
func DefaultSettings() Settings {
	defs := data.MustLoad()
	return Settings{
		Templates:       DefaultTemplates(),
		HardLimit:       defs.DefaultHardLimit,
		ParentMenuTitle: defs.DefaultParentMenuTitle,
	}
}

// DefaultTemplates returns a fresh copy of the built-in templates
func DefaultTemplates() []Template {
	out := make([]Template, len(defaultTemplates))
	copy(out, defaultTemplates)
	return out
}

// IsModelOption reports whether value is a known model identifier
func IsModelOption(value string) bool {
	return data.MustLoad().IsModelOption(value)
}

// ResolveModelID returns the model id a template asks for; empty means none
func ResolveModelID(t Template) string {
	if t.Model == ModelCustom {
		return strings.TrimSpace(t.CustomModel)
	}
	return t.Model
}

// CollectWarnings reports authoring problems that do not prevent saving
func CollectWarnings(t Template) []string {
	var warnings []string
	if !template.HasPlaceholder(t.URL) && !template.HasPlaceholder(t.QueryTemplate) {
		warnings = append(warnings, MissingPlaceholderWarning)
	}
	return warnings
}

// Clone returns a deep copy
func (s Settings) Clone() Settings {
	out := s
	out.Templates = make([]Template, len(s.Templates))
	copy(out.Templates, s.Templates)
	return out
}

// FindTemplate returns the template with the given id
func (s Settings) FindTemplate(id string) (Template, bool) {
	for _, t := range s.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// DefaultTemplate returns the template used by the default shortcut: the one marked
// default, provided it is enabled
func (s Settings) DefaultTemplate() (Template, bool) {
	for _, t := range s.Templates {
		if t.IsDefault && t.Enabled {
			return t, true
		}
	}
	return Template{}, false
}

// EnabledTemplates returns the templates offered for selection, in order
func (s Settings) EnabledTemplates() []Template {
	var out []Template
	for _, t := range s.Templates {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// Raw converts s back into the untyped shape Normalize accepts, so edits can be
// re-normalized before they are saved
func (s Settings) Raw() map[string]any {
	templates := make([]any, 0, len(s.Templates))
	for _, t := range s.Templates {
		templates = append(templates, t.raw())
	}
	return map[string]any{
		"templates":       templates,
		"hardLimit":       s.HardLimit,
		"parentMenuTitle": s.ParentMenuTitle,
	}
}

func (t Template) raw() map[string]any {
	m := map[string]any{
		"id":            t.ID,
		"label":         t.Label,
		"url":           t.URL,
		"queryTemplate": t.QueryTemplate,
		"enabled":       t.Enabled,
		"hintsSearch":   t.HintsSearch,
		"temporaryChat": t.TemporaryChat,
		"model":         t.Model,
		"isDefault":     t.IsDefault,
	}
	if t.CustomModel != "" {
		m["customModel"] = t.CustomModel
	}
	return m
}
