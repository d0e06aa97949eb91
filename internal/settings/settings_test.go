package settings

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceIDs returns a generator cycling through ids
func sequenceIDs(ids ...string) IDGenerator {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func mustNormalize(t *testing.T, raw any) Settings {
	t.Helper()
	s, err := Normalize(raw)
	require.NoError(t, err)
	return s
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 3000, s.HardLimit)
	assert.Equal(t, "ChatGPTで検索", s.ParentMenuTitle)
	require.Len(t, s.Templates, 2)

	first := s.Templates[0]
	assert.Equal(t, "template-1", first.ID)
	assert.Equal(t, "標準検索", first.Label)
	assert.Equal(t, "https://chatgpt.com/?prompt={TEXT}", first.URL)
	assert.Equal(t, "{TEXT}", first.QueryTemplate)
	assert.True(t, first.Enabled)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "gpt-5.1", first.Model)
	assert.Empty(t, first.CustomModel)

	second := s.Templates[1]
	assert.Equal(t, "template-2", second.ID)
	assert.Equal(t, "Search + Temporary", second.Label)
	assert.False(t, second.Enabled)
	assert.False(t, second.IsDefault)
	assert.True(t, second.HintsSearch)
	assert.True(t, second.TemporaryChat)
	assert.Equal(t, "gpt-5.1-thinking", second.Model)
}

func TestDefaultSettingsReturnsCopies(t *testing.T) {
	s := DefaultSettings()
	s.Templates[0].Label = "changed"
	assert.Equal(t, "標準検索", DefaultSettings().Templates[0].Label)
}

func TestNormalizeAbsentOrInvalidInput(t *testing.T) {
	inputs := map[string]any{
		"nil":             nil,
		"string":          "settings",
		"number":          42,
		"empty object":    map[string]any{},
		"empty templates": map[string]any{"templates": []any{}},
		"templates not a list": map[string]any{
			"templates": map[string]any{"id": "x"},
		},
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			got := mustNormalize(t, raw)
			if diff := cmp.Diff(DefaultSettings(), got); diff != "" {
				t.Errorf("Normalize(%v) mismatch (-want +got):\n%s", raw, diff)
			}
		})
	}
}

func TestNormalizeHardLimit(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected int
	}{
		{name: "below floor", raw: 50.0, expected: 100},
		{name: "just below floor", raw: 99.9, expected: 100},
		{name: "at floor", raw: 100.0, expected: 100},
		{name: "regular", raw: 5000.0, expected: 5000},
		{name: "fraction truncated", raw: 150.7, expected: 150},
		{name: "negative", raw: -10.0, expected: 100},
		{name: "yaml int", raw: 200, expected: 200},
		{name: "int64", raw: int64(4096), expected: 4096},
		{name: "json number", raw: json.Number("250"), expected: 250},
		{name: "string is ignored", raw: "3000", expected: 3000},
		{name: "bool is ignored", raw: true, expected: 3000},
		{name: "missing", raw: nil, expected: 3000},
		{name: "infinity", raw: math.Inf(1), expected: 3000},
		{name: "nan", raw: math.NaN(), expected: 3000},
		{name: "no ceiling", raw: 1e30, expected: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustNormalize(t, map[string]any{"hardLimit": tt.raw})
			assert.Equal(t, tt.expected, got.HardLimit)
		})
	}
}

func TestNormalizeParentMenuTitle(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected string
	}{
		{name: "trimmed", raw: "  My Menu  ", expected: "My Menu"},
		{name: "blank falls back", raw: "   ", expected: "ChatGPTで検索"},
		{name: "non string falls back", raw: 5, expected: "ChatGPTで検索"},
		{name: "missing falls back", raw: nil, expected: "ChatGPTで検索"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustNormalize(t, map[string]any{"parentMenuTitle": tt.raw})
			assert.Equal(t, tt.expected, got.ParentMenuTitle)
		})
	}
}

func TestNormalizeSanitizesTemplateFields(t *testing.T) {
	got := mustNormalize(t, map[string]any{
		"templates": []any{
			map[string]any{
				"id":            "  first  ",
				"label":         "   ",
				"url":           "  https://example.com/?q={TEXT}  ",
				"queryTemplate": "",
				"enabled":       "yes",
				"hintsSearch":   true,
				"temporaryChat": 1,
				"model":         "gpt-4",
				"customModel":   "ignored",
			},
			map[string]any{
				"id":          "second",
				"label":       "Custom",
				"model":       "custom",
				"customModel": "  my-model  ",
				"enabled":     true,
			},
		},
	})

	require.Len(t, got.Templates, 2)

	first := got.Templates[0]
	assert.Equal(t, "first", first.ID)
	assert.Equal(t, "標準検索", first.Label, "blank label falls back")
	assert.Equal(t, "https://example.com/?q={TEXT}", first.URL)
	assert.Equal(t, "", first.QueryTemplate, "string query template is kept even when empty")
	assert.True(t, first.Enabled, "non-bool enabled falls back")
	assert.True(t, first.HintsSearch)
	assert.False(t, first.TemporaryChat, "non-bool falls back")
	assert.Equal(t, "gpt-5.1", first.Model, "unknown model falls back")
	assert.Empty(t, first.CustomModel, "custom model dropped for non-custom model")

	second := got.Templates[1]
	assert.Equal(t, "custom", second.Model)
	assert.Equal(t, "my-model", second.CustomModel)
	assert.True(t, second.HintsSearch, "paired with the second built-in template")
}

func TestNormalizeCustomModelWithoutValue(t *testing.T) {
	got := mustNormalize(t, map[string]any{
		"templates": []any{
			map[string]any{"id": "a", "model": "custom", "customModel": "   "},
			map[string]any{"id": "b", "model": "custom"},
		},
	})

	for _, tmpl := range got.Templates {
		assert.Equal(t, ModelCustom, tmpl.Model)
		assert.Empty(t, tmpl.CustomModel)
		assert.Empty(t, ResolveModelID(tmpl))
	}
}

func TestNormalizeDefaultMarkerSpellings(t *testing.T) {
	tests := []struct {
		name     string
		entry    map[string]any
		expected bool
	}{
		{name: "isDefault wins over default", entry: map[string]any{"isDefault": false, "default": true}, expected: false},
		{name: "legacy default accepted", entry: map[string]any{"default": true}, expected: true},
		{name: "non-bool falls back to paired default", entry: map[string]any{"isDefault": "no"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := map[string]any{"id": "x", "label": "X", "enabled": true}
			for k, v := range tt.entry {
				src[k] = v
			}
			// position 1 pairs with the non-default built-in template
			got := sanitizeTemplate(src, defaultTemplates[1])
			assert.Equal(t, tt.expected, got.IsDefault)
		})
	}
}

func TestNormalizeReplacesDuplicateAndEmptyIDs(t *testing.T) {
	n := NewNormalizer(sequenceIDs("dup", "fresh-1", "fresh-2", "fresh-3"))

	got, err := n.Normalize(map[string]any{
		"templates": []any{
			map[string]any{"id": "dup", "label": "a"},
			map[string]any{"id": "dup", "label": "b"},
			map[string]any{"label": "c"},
			map[string]any{"id": "   ", "label": "d"},
		},
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(got.Templates))
	for _, tmpl := range got.Templates {
		ids = append(ids, tmpl.ID)
	}
	assert.Equal(t, "dup", ids[0])
	assert.Equal(t, "fresh-1", ids[1])
	assert.Equal(t, "fresh-2", ids[2])
	assert.Equal(t, "fresh-3", ids[3])
	assert.Len(t, uniqueStrings(ids), len(ids))
}

func TestNormalizeMissingIDTakesPairedDefaultID(t *testing.T) {
	got := mustNormalize(t, map[string]any{
		"templates": []any{
			map[string]any{"label": "first"},
			map[string]any{"label": "second"},
		},
	})

	assert.Equal(t, "template-1", got.Templates[0].ID)
	assert.Equal(t, "template-2", got.Templates[1].ID)
}

func TestNormalizeIDExhaustion(t *testing.T) {
	n := NewNormalizer(sequenceIDs("dup"))

	_, err := n.Normalize(map[string]any{
		"templates": []any{
			map[string]any{"id": "dup"},
			map[string]any{"id": "dup"},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIDExhausted)
}

func TestEnforceDefault(t *testing.T) {
	tmpl := func(isDefault, enabled bool) Template {
		return Template{IsDefault: isDefault, Enabled: enabled}
	}

	tests := []struct {
		name      string
		templates []Template
		expected  int
	}{
		{
			name:      "marked and enabled wins",
			templates: []Template{tmpl(true, false), tmpl(false, true), tmpl(true, true)},
			expected:  2,
		},
		{
			name:      "marked but disabled beats enabled",
			templates: []Template{tmpl(false, true), tmpl(true, false)},
			expected:  1,
		},
		{
			name:      "first enabled when none marked",
			templates: []Template{tmpl(false, false), tmpl(false, true), tmpl(false, true)},
			expected:  1,
		},
		{
			name:      "first when nothing qualifies",
			templates: []Template{tmpl(false, false), tmpl(false, false)},
			expected:  0,
		},
		{
			name:      "several marked keeps the first",
			templates: []Template{tmpl(true, true), tmpl(true, true)},
			expected:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnforceDefault(tt.templates)
			require.Len(t, got, len(tt.templates))
			for i, g := range got {
				assert.Equal(t, i == tt.expected, g.IsDefault, "index %d", i)
			}
		})
	}

	assert.Empty(t, EnforceDefault(nil))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	messy := map[string]any{
		"hardLimit":       12.5,
		"parentMenuTitle": "  title ",
		"templates": []any{
			map[string]any{"id": "a", "label": " A ", "enabled": false, "default": true},
			map[string]any{"id": "a", "model": "custom", "customModel": " m "},
			"not a template",
			map[string]any{"id": "c", "url": "relative/{TEXT}", "model": "nope"},
		},
	}

	once := mustNormalize(t, messy)
	twice := mustNormalize(t, once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Normalize is not idempotent (-once +twice):\n%s", diff)
	}

	defaults := 0
	for _, tmpl := range once.Templates {
		if tmpl.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	assert.Equal(t, 100, once.HardLimit)
}

func TestCreateTemplateDefaults(t *testing.T) {
	t.Run("no overrides", func(t *testing.T) {
		got := CreateTemplateDefaults(nil)
		assert.True(t, strings.HasPrefix(got.ID, "template-"))
		assert.Equal(t, "標準検索", got.Label)
		assert.Equal(t, "https://chatgpt.com/?prompt={TEXT}", got.URL)
		assert.Equal(t, "{TEXT}", got.QueryTemplate)
		assert.True(t, got.Enabled)
		assert.Equal(t, "gpt-5.1", got.Model)
	})

	t.Run("fresh ids", func(t *testing.T) {
		assert.NotEqual(t, CreateTemplateDefaults(nil).ID, CreateTemplateDefaults(nil).ID)
	})

	t.Run("overrides applied", func(t *testing.T) {
		id, label, model, custom := "  my-id ", "  Foo ", "custom", " x "
		enabled, isDefault := false, false
		got := CreateTemplateDefaults(&TemplateOverrides{
			ID:          &id,
			Label:       &label,
			Model:       &model,
			CustomModel: &custom,
			Enabled:     &enabled,
			IsDefault:   &isDefault,
		})
		assert.Equal(t, "my-id", got.ID)
		assert.Equal(t, "Foo", got.Label)
		assert.Equal(t, ModelCustom, got.Model)
		assert.Equal(t, "x", got.CustomModel)
		assert.False(t, got.Enabled)
		assert.False(t, got.IsDefault)
	})

	t.Run("unknown model keeps blueprint", func(t *testing.T) {
		model := "gpt-4"
		got := CreateTemplateDefaults(&TemplateOverrides{Model: &model})
		assert.Equal(t, "gpt-5.1", got.Model)
	})

	t.Run("bound to normalizer id source", func(t *testing.T) {
		got := NewNormalizer(sequenceIDs("template-fixed")).CreateTemplateDefaults(nil)
		assert.Equal(t, "template-fixed", got.ID)
	})
}

func TestNewTemplateID(t *testing.T) {
	pattern := regexp.MustCompile(`^template-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	assert.Regexp(t, pattern, NewTemplateID())

	fallback := fallbackTemplateID(time.UnixMilli(1700000000000))
	assert.Regexp(t, `^template-[0-9a-z]+-[0-9a-z]{8}$`, fallback)
	assert.True(t, strings.HasPrefix(fallback, "template-loyw3v28-"))
}

func TestResolveModelID(t *testing.T) {
	assert.Equal(t, "gpt-5", ResolveModelID(Template{Model: "gpt-5"}))
	assert.Equal(t, "my-model", ResolveModelID(Template{Model: ModelCustom, CustomModel: "  my-model "}))
	assert.Empty(t, ResolveModelID(Template{Model: ModelCustom}))
	assert.Equal(t, "gpt-5", ResolveModelID(Template{Model: "gpt-5", CustomModel: "ignored"}))
}

func TestCollectWarnings(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     Template
		expected int
	}{
		{name: "placeholder in url", tmpl: Template{URL: "https://x/?q={TEXT}"}, expected: 0},
		{name: "placeholder in query", tmpl: Template{URL: "https://x/", QueryTemplate: "{選択した文字列}"}, expected: 0},
		{name: "no placeholder", tmpl: Template{URL: "https://x/", QueryTemplate: "static"}, expected: 1},
		{name: "escaped only", tmpl: Template{URL: "https://x/?q={{TEXT}}", QueryTemplate: ""}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := CollectWarnings(tt.tmpl)
			assert.Len(t, warnings, tt.expected)
			if tt.expected > 0 {
				assert.Equal(t, MissingPlaceholderWarning, warnings[0])
			}
		})
	}
}

func TestSettingsLookups(t *testing.T) {
	s := mustNormalize(t, map[string]any{
		"templates": []any{
			map[string]any{"id": "off", "enabled": false, "isDefault": true},
			map[string]any{"id": "on", "enabled": true},
		},
	})

	found, ok := s.FindTemplate("on")
	require.True(t, ok)
	assert.Equal(t, "on", found.ID)

	_, ok = s.FindTemplate("missing")
	assert.False(t, ok)

	// the marked default is disabled, so the shortcut has nothing to run
	_, ok = s.DefaultTemplate()
	assert.False(t, ok)

	enabled := s.EnabledTemplates()
	require.Len(t, enabled, 1)
	assert.Equal(t, "on", enabled[0].ID)

	clone := s.Clone()
	clone.Templates[0].Label = "changed"
	assert.NotEqual(t, "changed", s.Templates[0].Label)
}

func uniqueStrings(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
