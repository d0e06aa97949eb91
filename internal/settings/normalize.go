package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/chriscorrea/searchtemplater/internal/data"
)

// maxIDAttempts bounds id regeneration for a single colliding template
const maxIDAttempts = 1000

// ErrIDExhausted is returned when no unique template id could be generated
var ErrIDExhausted = fmt.Errorf("failed to generate a unique template id after %d attempts", maxIDAttempts)

// blueprint is the first built-in template without an id; new templates start from it
var blueprint = func() Template {
	first := data.MustLoad().DefaultTemplates[0]
	t := sanitizeTemplate(defaultsSource(first), Template{})
	t.ID = ""
	return t
}()

// defaultTemplates is the built-in list with exactly one default
var defaultTemplates = func() []Template {
	defs := data.MustLoad()
	out := make([]Template, 0, len(defs.DefaultTemplates))
	for _, d := range defs.DefaultTemplates {
		fallback := blueprint
		fallback.ID = NewTemplateID()
		out = append(out, sanitizeTemplate(defaultsSource(d), fallback))
	}
	return EnforceDefault(out)
}()

var defaultNormalizer = NewNormalizer(NewTemplateID)

// TemplateOverrides carries optional field values for CreateTemplateDefaults;
// nil fields keep the blueprint value
type TemplateOverrides struct {
	ID            *string
	Label         *string
	URL           *string
	QueryTemplate *string
	Enabled       *bool
	HintsSearch   *bool
	TemporaryChat *bool
	Model         *string
	CustomModel   *string
	IsDefault     *bool
}

func (o *TemplateOverrides) source() map[string]any {
	src := map[string]any{}
	if o == nil {
		return src
	}
	setString := func(key string, v *string) {
		if v != nil {
			src[key] = *v
		}
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			src[key] = *v
		}
	}
	setString("id", o.ID)
	setString("label", o.Label)
	setString("url", o.URL)
	setString("queryTemplate", o.QueryTemplate)
	setBool("enabled", o.Enabled)
	setBool("hintsSearch", o.HintsSearch)
	setBool("temporaryChat", o.TemporaryChat)
	setString("model", o.Model)
	setString("customModel", o.CustomModel)
	setBool("isDefault", o.IsDefault)
	return src
}

// Normalizer repairs raw settings; it owns the id source used for new templates
type Normalizer struct {
	newID  IDGenerator
	logger *slog.Logger
}

// NewNormalizer creates a normalizer drawing fresh ids from newID
func NewNormalizer(newID IDGenerator) *Normalizer {
	return &Normalizer{
		newID:  newID,
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger used to report ignored fields
func (n *Normalizer) WithLogger(logger *slog.Logger) *Normalizer {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// Normalize repairs raw into well-formed settings using the default id source
func Normalize(raw any) (Settings, error) {
	return defaultNormalizer.Normalize(raw)
}

// CreateTemplateDefaults returns a new template built from the blueprint with the
// given overrides applied under the usual validity rules
func CreateTemplateDefaults(o *TemplateOverrides) Template {
	return defaultNormalizer.CreateTemplateDefaults(o)
}

// Normalize repairs raw, which is the decoded form of stored or imported settings.
// Anything that is not an object is treated as absent. Only id exhaustion fails.
func (n *Normalizer) Normalize(raw any) (Settings, error) {
	var src map[string]any
	switch v := raw.(type) {
	case map[string]any:
		src = v
	case Settings:
		src = v.Raw()
	case *Settings:
		if v != nil {
			src = v.Raw()
		}
	}

	templates, err := n.normalizeTemplates(src["templates"])
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Templates:       templates,
		HardLimit:       normalizeHardLimit(src["hardLimit"]),
		ParentMenuTitle: normalizeParentMenuTitle(src["parentMenuTitle"]),
	}, nil
}

// CreateTemplateDefaults is the package function bound to this normalizer's id source
func (n *Normalizer) CreateTemplateDefaults(o *TemplateOverrides) Template {
	fallback := blueprint
	fallback.ID = n.newID()
	return sanitizeTemplate(o.source(), fallback)
}

func (n *Normalizer) normalizeTemplates(raw any) ([]Template, error) {
	entries, ok := raw.([]any)
	if !ok || len(entries) == 0 {
		return DefaultTemplates(), nil
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]Template, 0, len(entries))
	for i, entry := range entries {
		src, _ := entry.(map[string]any)
		n.logUnknownFields(i, src)

		t := sanitizeTemplate(src, n.fallbackAt(i))
		id := strings.TrimSpace(t.ID)
		if _, taken := seen[id]; id == "" || taken {
			fresh, err := n.uniqueID(seen)
			if err != nil {
				return nil, err
			}
			n.logger.Debug("replaced template id", "index", i, "old_id", id, "new_id", fresh)
			id = fresh
		}
		seen[id] = struct{}{}
		t.ID = id
		out = append(out, t)
	}

	return EnforceDefault(out), nil
}

// fallbackAt pairs a stored entry with the built-in template at the same position
func (n *Normalizer) fallbackAt(i int) Template {
	if i < len(defaultTemplates) {
		return defaultTemplates[i]
	}
	return n.CreateTemplateDefaults(nil)
}

func (n *Normalizer) uniqueID(seen map[string]struct{}) (string, error) {
	for range maxIDAttempts {
		id := strings.TrimSpace(n.newID())
		if id == "" {
			continue
		}
		if _, taken := seen[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func (n *Normalizer) logUnknownFields(index int, src map[string]any) {
	for key := range src {
		if !isTemplateKey(key) {
			n.logger.Debug("ignoring unknown template field", "index", index, "field", key)
		}
	}
}

func isTemplateKey(key string) bool {
	if key == "default" {
		return true
	}
	for _, rule := range templateRules {
		if rule.key == key {
			return true
		}
	}
	return false
}

// EnforceDefault returns a copy of templates with exactly one marked default, chosen
// as the first marked and enabled, else the first marked, else the first enabled,
// else the first template
func EnforceDefault(templates []Template) []Template {
	if len(templates) == 0 {
		return templates
	}

	index := indexOf(templates, func(t Template) bool { return t.IsDefault && t.Enabled })
	if index < 0 {
		index = indexOf(templates, func(t Template) bool { return t.IsDefault })
	}
	if index < 0 {
		index = indexOf(templates, func(t Template) bool { return t.Enabled })
	}
	if index < 0 {
		index = 0
	}

	out := make([]Template, len(templates))
	for i, t := range templates {
		t.IsDefault = i == index
		out[i] = t
	}
	return out
}

func indexOf(templates []Template, match func(Template) bool) int {
	for i, t := range templates {
		if match(t) {
			return i
		}
	}
	return -1
}

// normalizeHardLimit accepts any finite number and applies the floor; fractions
// are truncated
func normalizeHardLimit(raw any) int {
	defs := data.MustLoad()

	value := float64(defs.DefaultHardLimit)
	if f, ok := toFloat(raw); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		value = f
	}
	value = math.Max(float64(defs.MinHardLimit), value)
	if value >= math.MaxInt {
		return math.MaxInt
	}
	return int(value)
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func normalizeParentMenuTitle(raw any) string {
	if s, ok := raw.(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return data.MustLoad().DefaultParentMenuTitle
}

// defaultsSource converts a shipped default into the untyped shape sanitize reads
func defaultsSource(d data.TemplateDefaults) map[string]any {
	src := map[string]any{
		"id":            d.ID,
		"label":         d.Label,
		"url":           d.URL,
		"queryTemplate": d.QueryTemplate,
		"enabled":       d.Enabled,
		"hintsSearch":   d.HintsSearch,
		"temporaryChat": d.TemporaryChat,
		"model":         d.Model,
		"default":       d.Default,
	}
	if d.CustomModel != "" {
		src["customModel"] = d.CustomModel
	}
	return src
}
