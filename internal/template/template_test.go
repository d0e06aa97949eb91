package template

import (
	"strings"
	"testing"
)

func TestApplyPlaceholders(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		replacement string
		expected    string
	}{
		{
			name:        "text placeholder is substituted",
			template:    "Q: {TEXT}",
			replacement: "hello",
			expected:    "Q: hello",
		},
		{
			name:        "japanese placeholder is substituted",
			template:    "{選択した文字列}について教えて",
			replacement: "Go",
			expected:    "Goについて教えて",
		},
		{
			name:        "both placeholders and repeats",
			template:    "{選択した文字列} / {TEXT} / {TEXT}",
			replacement: "x",
			expected:    "x / x / x",
		},
		{
			name:        "escaped placeholder stays literal",
			template:    "{{TEXT}} {TEXT}",
			replacement: "x",
			expected:    "{TEXT} x",
		},
		{
			name:        "escaped japanese placeholder stays literal",
			template:    "{{選択した文字列}}={TEXT}",
			replacement: "v",
			expected:    "{選択した文字列}=v",
		},
		{
			name:        "triple braces keep outer pair",
			template:    "{{{TEXT}}}",
			replacement: "x",
			expected:    "{{TEXT}}",
		},
		{
			name:        "unrelated braces untouched",
			template:    "{foo} {TEXT} {}",
			replacement: "bar",
			expected:    "{foo} bar {}",
		},
		{
			name:        "no placeholders is identity",
			template:    "https://example.com/search",
			replacement: "ignored",
			expected:    "https://example.com/search",
		},
		{
			name:        "empty template",
			template:    "",
			replacement: "x",
			expected:    "",
		},
		{
			name:        "empty replacement",
			template:    "a{TEXT}b",
			replacement: "",
			expected:    "ab",
		},
		{
			name:        "replacement that looks like an escape is not restored",
			template:    "{{TEXT}} {TEXT}",
			replacement: "__PLACEHOLDER_LITERAL_1__",
			expected:    "{TEXT} __PLACEHOLDER_LITERAL_1__",
		},
		{
			name:        "replacement with escaped form is inserted verbatim",
			template:    "{TEXT}",
			replacement: "{{TEXT}}",
			expected:    "{{TEXT}}",
		},
		{
			name:        "substitution is cumulative over placeholder order",
			template:    "{選択した文字列}",
			replacement: "a{TEXT}b",
			expected:    "aa{TEXT}bb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyPlaceholders(tt.template, tt.replacement)
			if result != tt.expected {
				t.Errorf("ApplyPlaceholders(%q, %q) = %q; want %q", tt.template, tt.replacement, result, tt.expected)
			}
		})
	}
}

func TestApplyPlaceholdersLeavesNoUnescapedPlaceholder(t *testing.T) {
	templates := []string{
		"{TEXT}",
		"{{TEXT}}{TEXT}",
		"x{選択した文字列}y{TEXT}z",
		"{{{TEXT}}}",
		"{{選択した文字列}} {選択した文字列}",
	}

	for _, tmpl := range templates {
		result := ApplyPlaceholders(tmpl, "plain")
		// only escaped forms may leave a placeholder behind
		for _, p := range Placeholders() {
			if strings.Count(result, p) != strings.Count(tmpl, "{"+p+"}") {
				t.Errorf("ApplyPlaceholders(%q) = %q left unescaped %q", tmpl, result, p)
			}
		}
	}
}

func TestHasPlaceholder(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "empty", value: "", expected: false},
		{name: "text placeholder", value: "https://x/?q={TEXT}", expected: true},
		{name: "japanese placeholder", value: "{選択した文字列}", expected: true},
		{name: "escaped only", value: "{{TEXT}}", expected: false},
		{name: "escaped japanese only", value: "{{選択した文字列}}", expected: false},
		{name: "escaped and unescaped", value: "{{TEXT}} {TEXT}", expected: true},
		{name: "open brace only", value: "{{TEXT}", expected: true},
		{name: "close brace only", value: "{TEXT}}", expected: true},
		{name: "triple braces", value: "{{{TEXT}}}", expected: false},
		{name: "lowercase is not a placeholder", value: "{text}", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPlaceholder(tt.value); got != tt.expected {
				t.Errorf("HasPlaceholder(%q) = %v; want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestPlaceholdersReturnsCopy(t *testing.T) {
	first := Placeholders()
	if len(first) != 2 || first[0] != "{選択した文字列}" || first[1] != "{TEXT}" {
		t.Fatalf("Placeholders() = %v; want [{選択した文字列} {TEXT}]", first)
	}
	first[0] = "mutated"
	if Placeholders()[0] != "{選択した文字列}" {
		t.Errorf("Placeholders() exposed internal state")
	}
}
