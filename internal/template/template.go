// Package template substitutes text into search templates.
//
// A template may contain any of the recognized placeholders ({選択した文字列} and {TEXT}).
// Doubling the braces ({{TEXT}}) escapes a placeholder: it survives substitution as the
// literal single-brace form.
package template

import (
	"slices"
	"strings"

	"github.com/chriscorrea/searchtemplater/internal/data"
)

// placeholders in substitution order
var placeholders = data.MustLoad().Placeholders

// segment is a run of template text; literal segments are escaped placeholders
// already restored to their single-brace form and are never substituted into
type segment struct {
	text    string
	literal bool
}

// Placeholders returns the recognized placeholders in substitution order
func Placeholders() []string {
	return slices.Clone(placeholders)
}

// ApplyPlaceholders replaces every unescaped placeholder in template with replacement
//
// Escaped forms are masked out before substitution and come back as the literal
// placeholder afterwards. Substitution is cumulative over the placeholder order, so a
// replacement containing a later placeholder is substituted again, as with plain
// sequential replacement.
func ApplyPlaceholders(template, replacement string) string {
	segments := maskLiterals(template)

	var b strings.Builder
	b.Grow(len(template))
	for _, seg := range segments {
		if seg.literal {
			b.WriteString(seg.text)
			continue
		}
		text := seg.text
		for _, p := range placeholders {
			text = strings.ReplaceAll(text, p, replacement)
		}
		b.WriteString(text)
	}
	return b.String()
}

// maskLiterals splits template around the escaped form of each placeholder,
// in placeholder order, so substitution only ever sees unescaped text
func maskLiterals(template string) []segment {
	segments := []segment{{text: template}}
	for _, p := range placeholders {
		escaped := "{" + p + "}"
		next := make([]segment, 0, len(segments))
		for _, seg := range segments {
			if seg.literal || !strings.Contains(seg.text, escaped) {
				next = append(next, seg)
				continue
			}
			parts := strings.Split(seg.text, escaped)
			for i, part := range parts {
				if i > 0 {
					next = append(next, segment{text: p, literal: true})
				}
				if part != "" {
					next = append(next, segment{text: part})
				}
			}
		}
		segments = next
	}
	return segments
}

// HasPlaceholder reports whether value contains at least one unescaped placeholder
//
// An occurrence counts as escaped only when it is immediately preceded by "{" and
// immediately followed by "}".
func HasPlaceholder(value string) bool {
	for _, p := range placeholders {
		offset := 0
		for {
			idx := strings.Index(value[offset:], p)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(p)
			escaped := start > 0 && value[start-1] == '{' && end < len(value) && value[end] == '}'
			if !escaped {
				return true
			}
			offset = end
		}
	}
	return false
}
