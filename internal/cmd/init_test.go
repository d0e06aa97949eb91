package cmd

import (
	"io"
	"testing"

	"github.com/AlecAivazis/survey/v2"

	"github.com/chriscorrea/searchtemplater/internal/config"
	"github.com/chriscorrea/searchtemplater/internal/registry"
)

func TestInitCommand(t *testing.T) {
	t.Run("command mode", func(t *testing.T) {
		setupTestState(t)
		prompts := scriptAnswers(t,
			modeDescriptions[registry.ModeCommand],
			"firefox --private-window",
		)

		if _, _, err := runCommand(t, initCmd); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		// a single enabled template leaves nothing to choose as the default
		if len(*prompts) != 2 {
			t.Errorf("Expected 2 prompts, got %d", len(*prompts))
		}

		fresh := config.NewManager().WithNotice(io.Discard)
		if err := fresh.Load(state.manager.Viper().ConfigFileUsed()); err != nil {
			t.Fatalf("Failed to reload config: %v", err)
		}
		if got := fresh.Config().Browser.Mode; got != registry.ModeCommand {
			t.Errorf("Expected mode %q, got %q", registry.ModeCommand, got)
		}
		if got := fresh.Config().Browser.Command; got != "firefox --private-window" {
			t.Errorf("Expected command to be saved, got %q", got)
		}
		if len(storedSettings(t).Templates) != 2 {
			t.Errorf("Expected the built-in templates to be written")
		}
	})

	t.Run("default template choice", func(t *testing.T) {
		setupTestState(t)
		if _, _, err := runCommand(t, findSubcommand(t, "enable"), "template-2"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		prompts := scriptAnswers(t,
			modeDescriptions[registry.ModePrint],
			"Search + Temporary (template-2)",
		)
		if _, _, err := runCommand(t, initCmd); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		sel, ok := (*prompts)[0].(*survey.Select)
		if !ok || sel.Default != modeDescriptions[registry.ModeSystem] {
			t.Errorf("Expected the mode prompt to default to the current mode")
		}

		def, ok := storedSettings(t).DefaultTemplate()
		if !ok || def.ID != "template-2" {
			t.Errorf("Expected template-2 to become the default, got %+v", def)
		}
	})
}
