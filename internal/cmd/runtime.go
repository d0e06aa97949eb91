package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/chriscorrea/searchtemplater/internal/app"
	textio "github.com/chriscorrea/searchtemplater/internal/io"
	"github.com/chriscorrea/searchtemplater/internal/registry"
	"github.com/chriscorrea/searchtemplater/internal/settings"
)

// askOne is swapped out in tests
var askOne = survey.AskOne

// ctxOf returns the command context, or a background context when run outside Execute
func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ExitError carries a rejected execution out of a command; the user was already notified
type ExitError struct {
	Response app.Response
}

func (e *ExitError) Error() string {
	return "execution rejected: " + string(e.Response.Reason)
}

// Code is the process exit code for the rejection
func (e *ExitError) Code() int {
	return app.ExitCode(e.Response)
}

// exitFor turns a failed response into an ExitError
func exitFor(resp app.Response) error {
	if resp.Success {
		return nil
	}
	return &ExitError{Response: resp}
}

// stderrNotifier prints user-facing notices in color
type stderrNotifier struct {
	w     io.Writer
	color *color.Color
}

func newNotifier(w io.Writer) *stderrNotifier {
	return &stderrNotifier{w: w, color: color.New(color.FgYellow, color.Bold)}
}

func (n *stderrNotifier) Notify(_ context.Context, message string) {
	fmt.Fprintln(n.w, n.color.Sprint(message))
}

// createNavigator returns the test override or the navigator for the configured mode
func createNavigator(cmd *cobra.Command) (registry.Navigator, error) {
	if state.navigator != nil {
		return state.navigator, nil
	}
	cfg := state.manager.Config()
	return registry.CreateNavigator(cfg.Browser.Mode, registry.Options{
		Command: cfg.Browser.Command,
		Out:     cmd.OutOrStdout(),
		Logger:  state.logger,
	})
}

// newApp wires the store, navigator and notifier for a command
func newApp(cmd *cobra.Command) (*app.App, error) {
	if state.store == nil {
		return nil, fmt.Errorf("settings store not initialized")
	}
	nav, err := createNavigator(cmd)
	if err != nil {
		return nil, err
	}
	return app.NewApp(state.store, nav, newNotifier(cmd.ErrOrStderr()), state.logger), nil
}

// readText collects the selection text from stdin, files and args
func readText(args []string, files []string) (string, error) {
	text, err := textio.ReadText(state.stdin, args, files)
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return text, nil
}

// hasPipedInput reports whether f is a pipe or file rather than a terminal
func hasPipedInput(f *os.File) bool {
	if f == nil {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// findTemplate resolves ref by id, then by case-insensitive label
func findTemplate(s settings.Settings, ref string) (settings.Template, bool) {
	ref = strings.TrimSpace(ref)
	if t, ok := s.FindTemplate(ref); ok {
		return t, true
	}
	for _, t := range s.Templates {
		if strings.EqualFold(t.Label, ref) {
			return t, true
		}
	}
	return settings.Template{}, false
}

// suggestTemplates returns ids and labels close to ref, best first
func suggestTemplates(s settings.Settings, ref string) []string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}

	var candidates []string
	for _, t := range s.Templates {
		candidates = append(candidates, t.ID)
		if t.Label != "" && t.Label != t.ID {
			candidates = append(candidates, t.Label)
		}
	}

	type scored struct {
		name     string
		distance int
	}
	var matches []scored
	seen := map[string]bool{}
	for _, rank := range fuzzy.RankFindNormalizedFold(ref, candidates) {
		matches = append(matches, scored{name: rank.Target, distance: rank.Distance})
		seen[rank.Target] = true
	}
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(strings.ToLower(ref), strings.ToLower(c)); d <= 3 {
			matches = append(matches, scored{name: c, distance: d})
			seen[c] = true
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].distance < matches[j].distance })

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.name)
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// templateNotFound builds the error for an unknown template reference
func templateNotFound(s settings.Settings, ref string) error {
	if suggestions := suggestTemplates(s, ref); len(suggestions) > 0 {
		return fmt.Errorf("template %q not found. Did you mean: %s", ref, strings.Join(suggestions, ", "))
	}
	return fmt.Errorf("template %q not found. Use 'templater templates list' to see templates", ref)
}

// loadSettings reads the current settings, writing defaults on first use
func loadSettings(cmd *cobra.Command) (settings.Settings, error) {
	if state.store == nil {
		return settings.Settings{}, fmt.Errorf("settings store not initialized")
	}
	s, err := state.store.EnsureDefaults(ctxOf(cmd))
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// printWarnings writes template warnings to stderr
func printWarnings(cmd *cobra.Command, t settings.Template) {
	warn := color.New(color.FgYellow).SprintFunc()
	for _, w := range settings.CollectWarnings(t) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", warn("warning"), t.ID, w)
	}
}
