// Package menu models the selection menu: a parent entry, one entry per enabled
// template, then the prompt and edit entries.
package menu

import (
	"strings"

	"github.com/chriscorrea/searchtemplater/internal/settings"
)

// Namespace prefixes every menu id
const Namespace = "chatgpt-search-templater"

// fixed menu ids
const (
	ParentID = Namespace + ":parent"
	PromptID = Namespace + ":prompt"
	EditID   = Namespace + ":edit"

	templatePrefix = Namespace + ":template:"
)

// fixed menu titles
const (
	PromptTitle = "クエリを入力して実行…"
	EditTitle   = "テンプレートを編集…"
)

// Kind tells what selecting an item does
type Kind int

const (
	KindNone Kind = iota
	KindParent
	KindTemplate
	KindPrompt
	KindEdit
)

func (k Kind) String() string {
	switch k {
	case KindParent:
		return "parent"
	case KindTemplate:
		return "template"
	case KindPrompt:
		return "prompt"
	case KindEdit:
		return "edit"
	}
	return "none"
}

// Item is one menu entry
type Item struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId,omitempty"`
	Title    string `json:"title"`
	Kind     Kind   `json:"-"`
}

// Build returns the menu for s in display order
func Build(s settings.Settings) []Item {
	items := []Item{{ID: ParentID, Title: s.ParentMenuTitle, Kind: KindParent}}

	for _, t := range s.EnabledTemplates() {
		items = append(items, Item{
			ID:       TemplateID(t.ID),
			ParentID: ParentID,
			Title:    t.Label,
			Kind:     KindTemplate,
		})
	}

	return append(items,
		Item{ID: PromptID, ParentID: ParentID, Title: PromptTitle, Kind: KindPrompt},
		Item{ID: EditID, ParentID: ParentID, Title: EditTitle, Kind: KindEdit},
	)
}

// TemplateID is the menu id of a template entry
func TemplateID(templateID string) string {
	return templatePrefix + templateID
}

// ParseTemplateID extracts the template id from a template entry's menu id
func ParseTemplateID(menuID string) (string, bool) {
	id, ok := strings.CutPrefix(menuID, templatePrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Classify reports what kind of entry menuID names, with the template id for template entries
func Classify(menuID string) (Kind, string) {
	switch menuID {
	case ParentID:
		return KindParent, ""
	case PromptID:
		return KindPrompt, ""
	case EditID:
		return KindEdit, ""
	}
	if id, ok := ParseTemplateID(menuID); ok {
		return KindTemplate, id
	}
	return KindNone, ""
}
