package cmd

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriscorrea/searchtemplater/internal/app"
	"github.com/chriscorrea/searchtemplater/internal/menu"
)

func TestMenuCommand(t *testing.T) {
	t.Run("tree", func(t *testing.T) {
		setupTestState(t)

		stdout, _, err := runCommand(t, menuCmd)
		require.NoError(t, err)
		assert.Contains(t, stdout, "ChatGPTで検索")
		assert.Contains(t, stdout, "├─ 標準検索")
		assert.Contains(t, stdout, "└─ "+menu.EditTitle)
		assert.NotContains(t, stdout, "Search + Temporary", "disabled templates are not offered")
	})

	t.Run("json", func(t *testing.T) {
		setupTestState(t)

		stdout, _, err := runCommand(t, menuCmd, "--json")
		require.NoError(t, err)

		var items []menu.Item
		require.NoError(t, json.Unmarshal([]byte(stdout), &items))
		require.Len(t, items, 4)
		assert.Equal(t, menu.ParentID, items[0].ID)
		assert.Equal(t, menu.TemplateID("template-1"), items[1].ID)
		assert.Equal(t, menu.PromptID, items[2].ID)
		assert.Equal(t, menu.EditID, items[3].ID)
	})
}

func TestMenuClickCommand(t *testing.T) {
	t.Run("template entry", func(t *testing.T) {
		nav := setupTestState(t)

		_, _, err := runCommand(t, menuClickCmd, menu.TemplateID("template-1"), "量子")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://chatgpt.com/?prompt=%E9%87%8F%E5%AD%90&model=gpt-5.1"}, nav.urls)
	})

	t.Run("template entry without text", func(t *testing.T) {
		nav := setupTestState(t)

		_, stderr, err := runCommand(t, menuClickCmd, menu.TemplateID("template-1"))

		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, app.ReasonEmptySelection, exitErr.Response.Reason)
		assert.Contains(t, stderr, app.MessageEmptySelection)
		assert.Empty(t, nav.urls)
	})

	t.Run("removed template", func(t *testing.T) {
		nav := setupTestState(t)

		_, _, err := runCommand(t, menuClickCmd, menu.TemplateID("gone"), "x")

		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, app.ExitNotFound, exitErr.Code())
		assert.Empty(t, nav.urls)
	})

	t.Run("edit entry", func(t *testing.T) {
		setupTestState(t)

		stdout, _, err := runCommand(t, menuClickCmd, menu.EditID)
		require.NoError(t, err)
		assert.Contains(t, stdout, state.store.Path())
	})

	t.Run("prompt entry", func(t *testing.T) {
		nav := setupTestState(t)
		scriptAnswers(t,
			"標準検索 (template-1)",
			"edited text",
			"gpt-5 - GPT-5",
		)

		_, _, err := runCommand(t, menuClickCmd, menu.PromptID, "original")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://chatgpt.com/?prompt=edited%20text&model=gpt-5"}, nav.urls)
	})

	t.Run("parent and unknown entries", func(t *testing.T) {
		setupTestState(t)

		for _, id := range []string{menu.ParentID, "something-else"} {
			_, _, err := runCommand(t, menuClickCmd, id, "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "cannot be run")
		}
	})
}
