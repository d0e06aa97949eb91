package app

import (
	"strings"

	"github.com/chriscorrea/searchtemplater/internal/settings"
)

// AdHocLabel names templates composed without a stored base
const AdHocLabel = "カスタム検索"

// ComposeInline builds the template to execute from an optional stored template and
// optional inline fields. The result is always enabled and never the default. It
// reports false when there is neither a stored nor an inline template.
//
// A model outside the known set is treated as a custom model id.
func ComposeInline(base *settings.Template, inline *InlineTemplate) (settings.Template, bool) {
	if base == nil && inline == nil {
		return settings.Template{}, false
	}

	var t settings.Template
	if base != nil {
		t = *base
	} else {
		t = settings.CreateTemplateDefaults(nil)
		t.Label = AdHocLabel
	}

	if inline != nil {
		applyInline(&t, inline)
	}

	t.Enabled = true
	t.IsDefault = false
	return t, true
}

func applyInline(t *settings.Template, inline *InlineTemplate) {
	if inline.URL != nil {
		if v := strings.TrimSpace(*inline.URL); v != "" {
			t.URL = v
		}
	}
	if inline.QueryTemplate != nil && *inline.QueryTemplate != "" {
		t.QueryTemplate = *inline.QueryTemplate
	}
	if inline.HintsSearch != nil {
		t.HintsSearch = *inline.HintsSearch
	}
	if inline.TemporaryChat != nil {
		t.TemporaryChat = *inline.TemporaryChat
	}

	customModel := ""
	hasCustomModel := inline.CustomModel != nil
	if hasCustomModel {
		customModel = strings.TrimSpace(*inline.CustomModel)
	}

	model := ""
	if inline.Model != nil {
		model = strings.TrimSpace(*inline.Model)
	}

	switch {
	case model != "" && settings.IsModelOption(model):
		t.Model = model
		t.CustomModel = ""
		if model == settings.ModelCustom {
			t.CustomModel = customModel
		}
	case model != "":
		// an unknown model id is kept as a custom model, unless a custom value is given
		value := model
		if hasCustomModel {
			value = customModel
		}
		if value != "" {
			t.Model = settings.ModelCustom
			t.CustomModel = value
		}
	case customModel != "":
		t.Model = settings.ModelCustom
		t.CustomModel = customModel
	}
}
