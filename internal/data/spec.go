package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

// see https://pkg.go.dev/embed for more on embedding files

//go:embed configs/*.json
var configFS embed.FS

const specFile = "configs/template_spec.json"

// ModelOption is a selectable model for a template
type ModelOption struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// TemplateDefaults is one built-in template as shipped in template_spec.json
type TemplateDefaults struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	URL           string `json:"url"`
	QueryTemplate string `json:"queryTemplate"`
	Enabled       bool   `json:"enabled"`
	HintsSearch   bool   `json:"hintsSearch"`
	TemporaryChat bool   `json:"temporaryChat"`
	Model         string `json:"model"`
	CustomModel   string `json:"customModel,omitempty"`
	Default       bool   `json:"default,omitempty"`
}

// TemplateSpec holds the shared constants every component builds on.
// The value returned by Load is shared; callers must treat it as read-only.
type TemplateSpec struct {
	Placeholders           []string           `json:"placeholders"`
	BaseOrigin             string             `json:"baseOrigin"`
	DefaultTemplateURL     string             `json:"defaultTemplateUrl"`
	DefaultQueryTemplate   string             `json:"defaultQueryTemplate"`
	TemplateModelOptions   []ModelOption      `json:"templateModelOptions"`
	DefaultHardLimit       int                `json:"defaultHardLimit"`
	MinHardLimit           int                `json:"minHardLimit"`
	DefaultParentMenuTitle string             `json:"defaultParentMenuTitle"`
	DefaultTemplates       []TemplateDefaults `json:"defaultTemplates"`
}

var (
	loadOnce   sync.Once
	loadedSpec *TemplateSpec
	loadErr    error
)

// Load parses the embedded template_spec.json once and returns the shared result
func Load() (*TemplateSpec, error) {
	loadOnce.Do(func() {
		raw, err := configFS.ReadFile(specFile)
		if err != nil {
			loadErr = fmt.Errorf("failed to read embedded %s: %w", specFile, err)
			return
		}
		loadedSpec, loadErr = Parse(raw)
	})
	return loadedSpec, loadErr
}

// MustLoad is Load for package-level initialisation; a broken embed is a build defect
func MustLoad() *TemplateSpec {
	defs, err := Load()
	if err != nil {
		panic(fmt.Sprintf("embedded template defaults is invalid: %v", err))
	}
	return defs
}

// Parse decodes and validates a template defaults document
func Parse(raw []byte) (*TemplateSpec, error) {
	var defs TemplateSpec
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse template defaults: %w", err)
	}
	if err := defs.validate(); err != nil {
		return nil, err
	}
	return &defs, nil
}

func (s *TemplateSpec) validate() error {
	if len(s.Placeholders) == 0 {
		return fmt.Errorf("template defaults declares no placeholders")
	}
	if s.DefaultTemplateURL == "" || s.DefaultQueryTemplate == "" {
		return fmt.Errorf("template defaults is missing default url or query template")
	}
	if len(s.TemplateModelOptions) == 0 {
		return fmt.Errorf("template defaults declares no model options")
	}
	if len(s.DefaultTemplates) == 0 {
		return fmt.Errorf("template defaults declares no default templates")
	}
	for i, t := range s.DefaultTemplates {
		if !s.IsModelOption(t.Model) {
			return fmt.Errorf("default template %d uses unknown model %q", i, t.Model)
		}
	}
	return nil
}

// ModelIDs returns the model identifiers in declaration order
func (s *TemplateSpec) ModelIDs() []string {
	ids := make([]string, 0, len(s.TemplateModelOptions))
	for _, option := range s.TemplateModelOptions {
		ids = append(ids, option.ID)
	}
	return ids
}

// IsModelOption reports whether value is one of the known model identifiers
func (s *TemplateSpec) IsModelOption(value string) bool {
	for _, option := range s.TemplateModelOptions {
		if option.ID == value {
			return true
		}
	}
	return false
}

// ModelSelectOptions returns formatted options for survey selection
func (s *TemplateSpec) ModelSelectOptions() []string {
	options := make([]string, 0, len(s.TemplateModelOptions))
	for _, option := range s.TemplateModelOptions {
		options = append(options, fmt.Sprintf("%s - %s", option.ID, option.Description))
	}
	return options
}

// ModelFromSelectOption extracts the model id from a formatted option string
func (s *TemplateSpec) ModelFromSelectOption(selected string) string {
	for _, option := range s.TemplateModelOptions {
		if selected == fmt.Sprintf("%s - %s", option.ID, option.Description) {
			return option.ID
		}
	}
	return ""
}
