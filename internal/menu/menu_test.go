package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chriscorrea/searchtemplater/internal/settings"
)

func TestBuild(t *testing.T) {
	s := settings.DefaultSettings()
	s.ParentMenuTitle = "検索"
	s.Templates[1].Enabled = true
	s.Templates = append(s.Templates, settings.Template{ID: "off", Label: "Off", Enabled: false})

	items := Build(s)

	assert.Equal(t, []Item{
		{ID: "chatgpt-search-templater:parent", Title: "検索", Kind: KindParent},
		{ID: "chatgpt-search-templater:template:template-1", ParentID: ParentID, Title: "標準検索", Kind: KindTemplate},
		{ID: "chatgpt-search-templater:template:template-2", ParentID: ParentID, Title: "Search + Temporary", Kind: KindTemplate},
		{ID: "chatgpt-search-templater:prompt", ParentID: ParentID, Title: PromptTitle, Kind: KindPrompt},
		{ID: "chatgpt-search-templater:edit", ParentID: ParentID, Title: EditTitle, Kind: KindEdit},
	}, items)
}

func TestBuildWithoutEnabledTemplates(t *testing.T) {
	s := settings.DefaultSettings()
	for i := range s.Templates {
		s.Templates[i].Enabled = false
	}

	items := Build(s)
	assert.Len(t, items, 3)
	assert.Equal(t, KindPrompt, items[1].Kind)
}

func TestParseTemplateID(t *testing.T) {
	tests := []struct {
		menuID string
		id     string
		ok     bool
	}{
		{menuID: TemplateID("template-1"), id: "template-1", ok: true},
		{menuID: "chatgpt-search-templater:template:a:b", id: "a:b", ok: true},
		{menuID: "chatgpt-search-templater:template:", ok: false},
		{menuID: PromptID, ok: false},
		{menuID: "template-1", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.menuID, func(t *testing.T) {
			id, ok := ParseTemplateID(tt.menuID)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestClassify(t *testing.T) {
	kind, id := Classify(EditID)
	assert.Equal(t, KindEdit, kind)
	assert.Empty(t, id)

	kind, _ = Classify(PromptID)
	assert.Equal(t, "prompt", kind.String())

	kind, id = Classify(TemplateID("x"))
	assert.Equal(t, KindTemplate, kind)
	assert.Equal(t, "x", id)

	kind, _ = Classify("something:else")
	assert.Equal(t, KindNone, kind)
	assert.Equal(t, "none", kind.String())
}
