package settings

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{input: "", expected: FormatJSON},
		{input: "JSON", expected: FormatJSON},
		{input: "yaml", expected: FormatYAML},
		{input: " yml ", expected: FormatYAML},
		{input: "toml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("backup.YAML"))
	assert.Equal(t, FormatYAML, FormatFromPath("/tmp/settings.yml"))
	assert.Equal(t, FormatJSON, FormatFromPath("settings.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("settings"))
}

func TestDecodeBlankInput(t *testing.T) {
	raw, err := Decode([]byte("  \n"), FormatJSON)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDecodeRepairsHandEditedJSON(t *testing.T) {
	input := `{
		"hardLimit": 500,
		"templates": [
			{"id": "a", "label": "A", "enabled": true,},
		],
	}`

	raw, err := Decode([]byte(input), FormatJSON)
	require.NoError(t, err)

	s := mustNormalize(t, raw)
	assert.Equal(t, 500, s.HardLimit)
	require.Len(t, s.Templates, 1)
	assert.Equal(t, "a", s.Templates[0].ID)
	assert.Equal(t, "A", s.Templates[0].Label)
}

func TestDecodeYAML(t *testing.T) {
	input := `
hardLimit: 250
parentMenuTitle: Search with ChatGPT
templates:
  - id: yaml-1
    label: From YAML
    url: https://example.com/?q={TEXT}
    default: true
    enabled: true
    model: gpt-5
`

	raw, err := Decode([]byte(input), FormatYAML)
	require.NoError(t, err)

	s := mustNormalize(t, raw)
	assert.Equal(t, 250, s.HardLimit)
	assert.Equal(t, "Search with ChatGPT", s.ParentMenuTitle)
	require.Len(t, s.Templates, 1)
	assert.Equal(t, "yaml-1", s.Templates[0].ID)
	assert.Equal(t, "gpt-5", s.Templates[0].Model)
	assert.True(t, s.Templates[0].IsDefault)
}

func TestDecodeInvalidYAML(t *testing.T) {
	_, err := Decode([]byte("templates: [unterminated"), FormatYAML)
	assert.Error(t, err)
}

func TestEncodeUsesIsDefaultAndKeepsAmpersands(t *testing.T) {
	s := DefaultSettings()
	s.Templates[0].URL = "https://example.com/?a=1&q={TEXT}"

	out, err := Encode(s, FormatJSON)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, `"isDefault": true`)
	assert.NotContains(t, text, `"default":`)
	assert.Contains(t, text, "a=1&q={TEXT}")
	assert.NotContains(t, text, "customModel", "empty custom model is omitted")
}

func TestExportWritesDefaultMarker(t *testing.T) {
	s := DefaultSettings()

	out, err := Export(s, FormatJSON)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	templates := doc["templates"].([]any)
	first := templates[0].(map[string]any)
	assert.Equal(t, true, first["default"])
	_, hasCanonical := first["isDefault"]
	assert.False(t, hasCanonical)
}

func TestExportImportRestoresSettings(t *testing.T) {
	s := DefaultSettings()
	s.HardLimit = 1234
	s.Templates[1].Model = ModelCustom
	s.Templates[1].CustomModel = "my-model"

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			out, err := Export(s, format)
			require.NoError(t, err)

			raw, err := Decode(out, format)
			require.NoError(t, err)

			got := mustNormalize(t, raw)
			if diff := cmp.Diff(s, got); diff != "" {
				t.Errorf("exported settings did not survive import (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExportYAMLUsesCamelCaseKeys(t *testing.T) {
	out, err := Export(DefaultSettings(), FormatYAML)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.Contains(text, "queryTemplate:"))
	assert.True(t, strings.Contains(text, "hardLimit: 3000"))
	assert.True(t, strings.Contains(text, "default: true"))
}
