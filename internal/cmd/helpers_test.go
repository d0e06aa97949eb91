package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chriscorrea/searchtemplater/internal/config"
	"github.com/chriscorrea/searchtemplater/internal/store"
)

// recordingNavigator keeps the URLs it was asked to open
type recordingNavigator struct {
	urls []string
}

func (n *recordingNavigator) Navigate(_ context.Context, url string) error {
	n.urls = append(n.urls, url)
	return nil
}

// setupTestState points the global state at a temp config and settings file
func setupTestState(t *testing.T) *recordingNavigator {
	t.Helper()

	tempDir := t.TempDir()
	manager := config.NewManager().WithNotice(io.Discard)
	if err := manager.Load(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	settingsPath, err := manager.SettingsPath()
	if err != nil {
		t.Fatalf("Failed to resolve settings path: %v", err)
	}
	st, err := store.NewFileStore(settingsPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	nav := &recordingNavigator{}
	originalState := state
	state = &rootCmdState{
		manager:   manager,
		logger:    slog.New(slog.DiscardHandler),
		store:     st,
		navigator: nav,
	}
	t.Cleanup(func() { state = originalState })

	return nav
}

// runCommand parses args against c's own flags and runs it, capturing output
func runCommand(t *testing.T, c *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(c)
	t.Cleanup(func() {
		resetFlags(c)
		c.SetOut(nil)
		c.SetErr(nil)
	})

	var stdout, stderr bytes.Buffer
	c.SetOut(&stdout)
	c.SetErr(&stderr)

	if err := c.Flags().Parse(args); err != nil {
		t.Fatalf("Failed to parse flags %v: %v", args, err)
	}

	err := c.RunE(c, c.Flags().Args())
	return stdout.String(), stderr.String(), err
}

// resetFlags returns every local flag of c to its default
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

// scriptAnswers replaces askOne with a queue of answers and returns the prompts it saw
func scriptAnswers(t *testing.T, answers ...interface{}) *[]survey.Prompt {
	t.Helper()

	var prompts []survey.Prompt
	originalAskOne := askOne
	askOne = func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		prompts = append(prompts, p)
		if len(answers) == 0 {
			return fmt.Errorf("unexpected prompt %T", p)
		}
		answer := answers[0]
		answers = answers[1:]
		if err, ok := answer.(error); ok {
			return err
		}
		reflect.ValueOf(response).Elem().Set(reflect.ValueOf(answer))
		return nil
	}
	t.Cleanup(func() { askOne = originalAskOne })

	return &prompts
}
