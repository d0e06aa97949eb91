package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sort"
	"strings"

	"github.com/pkg/browser"
)

// navigator modes accepted by browser.mode
const (
	ModeSystem  = "system"
	ModePrint   = "print"
	ModeCommand = "command"
)

// ErrNoCommand is returned when the command mode has no command configured
var ErrNoCommand = errors.New("browser.command is empty")

// Options carries what a navigator factory may need
type Options struct {
	// Command is the program used by the command mode; extra words are passed as arguments
	Command string
	// Out receives the URL in print mode
	Out    io.Writer
	Logger *slog.Logger
}

// Navigator opens a URL
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// Factory creates a navigator from options
type Factory func(opts Options) (Navigator, error)

// AllNavigators contains registered navigator modes
var AllNavigators = map[string]Factory{
	ModeSystem:  newSystemNavigator,
	ModePrint:   newPrintNavigator,
	ModeCommand: newCommandNavigator,
}

// CreateNavigator creates a navigator for the given mode using the central registry
func CreateNavigator(mode string, opts Options) (Navigator, error) {
	factory, exists := AllNavigators[mode]
	if !exists {
		return nil, fmt.Errorf("unsupported browser mode '%s'. Available modes: %s", mode, strings.Join(GetAvailableModes(), ", "))
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return factory(opts)
}

// GetAvailableModes returns the sorted list of registered modes
func GetAvailableModes() []string {
	modes := make([]string, 0, len(AllNavigators))
	for name := range AllNavigators {
		modes = append(modes, name)
	}
	sort.Strings(modes)
	return modes
}

// IsModeRegistered checks if mode is registered
func IsModeRegistered(mode string) bool {
	_, exists := AllNavigators[mode]
	return exists
}

// SystemNavigator opens URLs in the system default browser
type SystemNavigator struct {
	open   func(url string) error
	logger *slog.Logger
}

func newSystemNavigator(opts Options) (Navigator, error) {
	return &SystemNavigator{open: browser.OpenURL, logger: opts.Logger}, nil
}

func (n *SystemNavigator) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.Debug("opening system browser", "url_length", len(url))
	if err := n.open(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// PrintNavigator writes URLs to a writer instead of opening them
type PrintNavigator struct {
	out io.Writer
}

func newPrintNavigator(opts Options) (Navigator, error) {
	if opts.Out == nil {
		return nil, errors.New("print mode requires an output writer")
	}
	return &PrintNavigator{out: opts.Out}, nil
}

func (n *PrintNavigator) Navigate(_ context.Context, url string) error {
	_, err := fmt.Fprintln(n.out, url)
	return err
}

// CommandNavigator runs a configured program with the URL as its last argument
type CommandNavigator struct {
	name   string
	args   []string
	logger *slog.Logger
}

func newCommandNavigator(opts Options) (Navigator, error) {
	fields := strings.Fields(opts.Command)
	if len(fields) == 0 {
		return nil, ErrNoCommand
	}
	return &CommandNavigator{name: fields[0], args: fields[1:], logger: opts.Logger}, nil
}

func (n *CommandNavigator) Navigate(ctx context.Context, url string) error {
	args := append(append([]string{}, n.args...), url)
	n.logger.Debug("running browser command", "command", n.name, "args", len(args))

	cmd := exec.CommandContext(ctx, n.name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("browser command %s failed: %w: %s", n.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
