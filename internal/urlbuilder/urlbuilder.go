// Package urlbuilder turns a template URL, a query template and raw text into the
// destination URL that gets opened.
package urlbuilder

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/chriscorrea/searchtemplater/internal/data"
	"github.com/chriscorrea/searchtemplater/internal/template"
)

// query parameters appended for runtime options
const (
	ParamHints         = "hints"
	ParamTemporaryChat = "temporary-chat"
	ParamModel         = "model"
)

// ErrInvalidURL is returned when the substituted URL cannot be parsed even
// after resolving it against the base origin
var ErrInvalidURL = errors.New("invalid template url")

// RuntimeOptions are the per-request flags that become query parameters
type RuntimeOptions struct {
	HintsSearch   bool
	TemporaryChat bool
	// Model is trimmed before use; blank means no model parameter
	Model string
}

// Params holds everything needed to build a destination URL
type Params struct {
	TemplateURL   string
	QueryTemplate string
	RawText       string
	Runtime       RuntimeOptions
}

// Result is the built URL together with the intermediate query values
type Result struct {
	URL          string `json:"url"`
	Query        string `json:"query"`
	EncodedQuery string `json:"encodedQuery"`
}

// Build substitutes rawText into the query template, encodes it, substitutes the
// encoded query into the template URL and applies the runtime options
func Build(p Params) (Result, error) {
	defs := data.MustLoad()

	baseTemplate := strings.TrimSpace(p.TemplateURL)
	if baseTemplate == "" {
		baseTemplate = defs.DefaultTemplateURL
	}

	// the query template is used untrimmed whenever it has any content
	queryTemplate := p.QueryTemplate
	if strings.TrimSpace(queryTemplate) == "" {
		queryTemplate = defs.DefaultQueryTemplate
	}

	query := template.ApplyPlaceholders(queryTemplate, p.RawText)
	encodedQuery := EncodeComponent(query)
	substituted := template.ApplyPlaceholders(baseTemplate, encodedQuery)

	u, err := resolve(escapeRaw(substituted), defs.BaseOrigin)
	if err != nil {
		return Result{}, err
	}

	if p.Runtime.HintsSearch {
		setQueryParam(u, ParamHints, "search")
	}
	if p.Runtime.TemporaryChat {
		setQueryParam(u, ParamTemporaryChat, "true")
	}
	if model := strings.TrimSpace(p.Runtime.Model); model != "" {
		setQueryParam(u, ParamModel, model)
	}

	return Result{
		URL:          u.String(),
		Query:        query,
		EncodedQuery: encodedQuery,
	}, nil
}

// resolve parses raw as an absolute URL, falling back to resolving it against base
func resolve(raw, base string) (*url.URL, error) {
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		return u, nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base origin %q: %w", base, err)
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	return baseURL.ResolveReference(ref), nil
}

// escapeRaw percent-encodes what a browser would encode when serializing the part
// after the authority: spaces, control bytes, non-ASCII bytes, '"', '<', '>' and any
// '%' that does not start a valid escape. The scheme and host are left untouched.
func escapeRaw(raw string) string {
	start := authorityEnd(raw)
	if start < 0 {
		return raw
	}

	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(raw))
	b.WriteString(raw[:start])
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '%' && i+2 < len(raw) && isHex(raw[i+1]) && isHex(raw[i+2]):
			b.WriteByte(c)
		case c <= 0x20, c >= 0x7f, c == '"', c == '<', c == '>', c == '%':
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// authorityEnd returns the index where the path of raw starts, 0 for a reference
// without scheme and authority, and -1 when there is nothing after the host
func authorityEnd(raw string) int {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || !isScheme(scheme) {
		return 0
	}
	i := strings.IndexAny(rest, "/?#")
	if i < 0 {
		return -1
	}
	return len(scheme) + len("://") + i
}

func isScheme(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// setQueryParam sets key to value, replacing the first existing occurrence in place
// and dropping any others. Unrelated segments of the raw query are kept verbatim so
// their original encoding survives.
func setQueryParam(u *url.URL, key, value string) {
	pair := url.QueryEscape(key) + "=" + url.QueryEscape(value)

	var parts []string
	replaced := false
	for _, part := range strings.Split(u.RawQuery, "&") {
		if part == "" {
			continue
		}
		if queryKey(part) == key {
			if !replaced {
				parts = append(parts, pair)
				replaced = true
			}
			continue
		}
		parts = append(parts, part)
	}
	if !replaced {
		parts = append(parts, pair)
	}
	u.RawQuery = strings.Join(parts, "&")
}

func queryKey(part string) string {
	name, _, _ := strings.Cut(part, "=")
	if decoded, err := url.QueryUnescape(name); err == nil {
		return decoded
	}
	return name
}

// EncodeComponent percent-encodes s the way a URI component is encoded in a browser:
// every byte outside A-Z a-z 0-9 and - _ . ! ~ * ' ( ) is escaped, so a space is %20
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isComponentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
