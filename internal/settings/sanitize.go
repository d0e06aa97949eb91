package settings

import "strings"

// fieldRule repairs one template field from an untrusted source, taking the value
// from the paired fallback whenever the source value is missing or unusable
type fieldRule struct {
	key   string
	apply func(src map[string]any, fallback Template, dst *Template)
}

// templateRules run in order; customModel depends on the already resolved model
var templateRules = []fieldRule{
	trimmedString("id", func(t *Template) *string { return &t.ID }),
	trimmedString("label", func(t *Template) *string { return &t.Label }),
	trimmedString("url", func(t *Template) *string { return &t.URL }),
	rawString("queryTemplate", func(t *Template) *string { return &t.QueryTemplate }),
	typedBool("enabled", func(t *Template) *bool { return &t.Enabled }),
	typedBool("hintsSearch", func(t *Template) *bool { return &t.HintsSearch }),
	typedBool("temporaryChat", func(t *Template) *bool { return &t.TemporaryChat }),
	{key: "model", apply: applyModel},
	{key: "customModel", apply: applyCustomModel},
	{key: "isDefault", apply: applyIsDefault},
}

// sanitizeTemplate builds a well-formed template out of src, field by field
func sanitizeTemplate(src map[string]any, fallback Template) Template {
	var out Template
	for _, rule := range templateRules {
		rule.apply(src, fallback, &out)
	}
	return out
}

// trimmedString takes a trimmed non-empty string, else the fallback
func trimmedString(key string, field func(*Template) *string) fieldRule {
	return fieldRule{key: key, apply: func(src map[string]any, fallback Template, dst *Template) {
		value := *field(&fallback)
		if s, ok := src[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				value = trimmed
			}
		}
		*field(dst) = value
	}}
}

// rawString takes any string as is, including an empty one
func rawString(key string, field func(*Template) *string) fieldRule {
	return fieldRule{key: key, apply: func(src map[string]any, fallback Template, dst *Template) {
		if s, ok := src[key].(string); ok {
			*field(dst) = s
			return
		}
		*field(dst) = *field(&fallback)
	}}
}

func typedBool(key string, field func(*Template) *bool) fieldRule {
	return fieldRule{key: key, apply: func(src map[string]any, fallback Template, dst *Template) {
		if b, ok := src[key].(bool); ok {
			*field(dst) = b
			return
		}
		*field(dst) = *field(&fallback)
	}}
}

func applyModel(src map[string]any, fallback Template, dst *Template) {
	if s, ok := src["model"].(string); ok && IsModelOption(s) {
		dst.Model = s
		return
	}
	dst.Model = fallback.Model
}

func applyCustomModel(src map[string]any, fallback Template, dst *Template) {
	dst.CustomModel = ""
	if dst.Model != ModelCustom {
		return
	}
	if s, ok := src["customModel"].(string); ok {
		dst.CustomModel = strings.TrimSpace(s)
		return
	}
	dst.CustomModel = strings.TrimSpace(fallback.CustomModel)
}

// applyIsDefault accepts both the canonical isDefault and the legacy default key
func applyIsDefault(src map[string]any, fallback Template, dst *Template) {
	if b, ok := src["isDefault"].(bool); ok {
		dst.IsDefault = b
		return
	}
	if b, ok := src["default"].(bool); ok {
		dst.IsDefault = b
		return
	}
	dst.IsDefault = fallback.IsDefault
}
