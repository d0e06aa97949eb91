package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chriscorrea/searchtemplater/internal/settings"
	"github.com/chriscorrea/searchtemplater/internal/urlbuilder"
)

// SettingsProvider supplies the current normalized settings
type SettingsProvider interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// Navigator opens a URL for the user
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// Notifier shows a short message to the user
type Notifier interface {
	Notify(ctx context.Context, message string)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) {}

// App executes templates and holds its collaborators
type App struct {
	settings  SettingsProvider
	navigator Navigator
	notifier  Notifier
	logger    *slog.Logger
}

// NewApp creates a new App; a nil notifier drops messages and a nil logger discards logs
func NewApp(provider SettingsProvider, navigator Navigator, notifier Notifier, logger *slog.Logger) *App {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		settings:  provider,
		navigator: navigator,
		notifier:  notifier,
		logger:    logger,
	}
}

// Plan is a fully resolved execution, before anything is opened
type Plan struct {
	urlbuilder.Result
	Template  settings.Template
	Runtime   urlbuilder.RuntimeOptions
	HardLimit int
	// TooLong is set when the URL is longer than HardLimit
	TooLong bool
}

// PlanExecution merges overrides into t and builds the destination URL
func PlanExecution(t settings.Template, text string, hardLimit int, o *Overrides) (Plan, error) {
	var runtime *RuntimeOverrides
	if o != nil {
		runtime = o.Runtime
	}

	opts := urlbuilder.RuntimeOptions{
		HintsSearch:   ResolveHintsSearch(runtime, t),
		TemporaryChat: ResolveTemporaryChat(runtime, t),
		Model:         ResolveModel(runtime, t),
	}

	result, err := urlbuilder.Build(urlbuilder.Params{
		TemplateURL:   EffectiveTemplateURL(t, o),
		QueryTemplate: EffectiveQueryTemplate(t, o),
		RawText:       text,
		Runtime:       opts,
	})
	if err != nil {
		return Plan{}, fmt.Errorf("failed to build url for template %s: %w", t.ID, err)
	}

	return Plan{
		Result:    result,
		Template:  t,
		Runtime:   opts,
		HardLimit: hardLimit,
		TooLong:   len(result.URL) > hardLimit,
	}, nil
}

// EffectiveTemplateURL is the override when it is non-blank, else the template URL
func EffectiveTemplateURL(t settings.Template, o *Overrides) string {
	if o != nil && o.TemplateURL != nil {
		if v := strings.TrimSpace(*o.TemplateURL); v != "" {
			return v
		}
	}
	return t.URL
}

// EffectiveQueryTemplate is the override when it is non-empty, else the template's
func EffectiveQueryTemplate(t settings.Template, o *Overrides) string {
	if o != nil && o.QueryTemplate != nil && *o.QueryTemplate != "" {
		return *o.QueryTemplate
	}
	return t.QueryTemplate
}

// ResolveHintsSearch prefers the runtime override over the template flag
func ResolveHintsSearch(r *RuntimeOverrides, t settings.Template) bool {
	if r != nil && r.HintsSearch != nil {
		return *r.HintsSearch
	}
	return t.HintsSearch
}

// ResolveTemporaryChat prefers the runtime override over the template flag
func ResolveTemporaryChat(r *RuntimeOverrides, t settings.Template) bool {
	if r != nil && r.TemporaryChat != nil {
		return *r.TemporaryChat
	}
	return t.TemporaryChat
}

// ResolveModel prefers a non-blank runtime model, else the template's model id
func ResolveModel(r *RuntimeOverrides, t settings.Template) string {
	if r != nil && r.Model != nil {
		if v := strings.TrimSpace(*r.Model); v != "" {
			return v
		}
	}
	return settings.ResolveModelID(t)
}

// ExecuteTemplate opens t for text unless the URL exceeds hardLimit
func (a *App) ExecuteTemplate(ctx context.Context, t settings.Template, text string, hardLimit int, o *Overrides) (resp Response) {
	defer a.recoverUnexpected(&resp)

	plan, err := PlanExecution(t, text, hardLimit, o)
	if err != nil {
		a.logger.Error("failed to plan execution", "template_id", t.ID, "error", err)
		return failure(ReasonUnexpectedError)
	}

	if plan.TooLong {
		a.logger.Warn("url exceeds hard limit",
			"template_id", t.ID,
			"url_length", len(plan.URL),
			"hard_limit", hardLimit)
		a.notifier.Notify(ctx, MessageTooLong)
		return failure(ReasonHardLimitExceeded)
	}

	a.logger.Debug("opening url", "template_id", t.ID, "url", plan.URL)
	if err := a.navigator.Navigate(ctx, plan.URL); err != nil {
		a.logger.Error("failed to open url", "template_id", t.ID, "error", err)
		return failure(ReasonUnexpectedError)
	}
	return Response{Success: true}
}

// Execute handles a request against the current settings. The stored template named
// by TemplateID, if any, is combined with the inline template; with neither the
// request is not found.
func (a *App) Execute(ctx context.Context, req Request) (resp Response) {
	defer a.recoverUnexpected(&resp)

	current, err := a.settings.Load(ctx)
	if err != nil {
		a.logger.Error("failed to load settings", "error", err)
		return failure(ReasonUnexpectedError)
	}

	var stored *settings.Template
	if id := strings.TrimSpace(req.TemplateID); id != "" {
		if t, ok := current.FindTemplate(id); ok {
			stored = &t
		} else {
			a.logger.Debug("template not found", "template_id", id)
		}
	}

	t, ok := ComposeInline(stored, req.Inline)
	if !ok {
		return failure(ReasonNotFound)
	}
	return a.ExecuteTemplate(ctx, t, req.Text, current.HardLimit, req.Overrides)
}

// ExecuteSelection is Execute for a user selection: empty text is refused with a notice
func (a *App) ExecuteSelection(ctx context.Context, req Request) Response {
	if req.Text == "" {
		a.notifier.Notify(ctx, MessageEmptySelection)
		return failure(ReasonEmptySelection)
	}
	return a.Execute(ctx, req)
}

// ExecuteDefault runs the enabled default template, refusing empty text
func (a *App) ExecuteDefault(ctx context.Context, text string) (resp Response) {
	defer a.recoverUnexpected(&resp)

	current, err := a.settings.Load(ctx)
	if err != nil {
		a.logger.Error("failed to load settings", "error", err)
		return failure(ReasonUnexpectedError)
	}

	t, ok := current.DefaultTemplate()
	if !ok {
		a.notifier.Notify(ctx, MessageNoDefault)
		return failure(ReasonNotFound)
	}
	if text == "" {
		a.notifier.Notify(ctx, MessageEmptySelection)
		return failure(ReasonEmptySelection)
	}
	return a.ExecuteTemplate(ctx, t, text, current.HardLimit, nil)
}

func (a *App) recoverUnexpected(resp *Response) {
	if r := recover(); r != nil {
		a.logger.Error("execution panicked", "panic", r)
		*resp = failure(ReasonUnexpectedError)
	}
}
