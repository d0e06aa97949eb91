// Package store persists settings as a single JSON document on disk.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chriscorrea/searchtemplater/internal/settings"
)

const defaultWatchDebounce = 500 * time.Millisecond

// FileStore reads and writes settings at a fixed path
type FileStore struct {
	path       string
	normalizer *settings.Normalizer
	logger     *slog.Logger
	debounce   time.Duration
}

// Option customizes a FileStore
type Option func(*FileStore)

// WithLogger sets the logger for store diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWatchDebounce sets how long Observe waits for writes to settle
func WithWatchDebounce(debounce time.Duration) Option {
	return func(s *FileStore) {
		if debounce >= 0 {
			s.debounce = debounce
		}
	}
}

// WithNormalizer replaces the normalizer, mainly to control id generation
func WithNormalizer(n *settings.Normalizer) Option {
	return func(s *FileStore) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// NewFileStore creates a store for the settings file at path
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("settings path required")
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	s := &FileStore{
		path:       filepath.Clean(path),
		normalizer: settings.NewNormalizer(settings.NewTemplateID),
		logger:     slog.New(slog.DiscardHandler),
		debounce:   defaultWatchDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.normalizer.WithLogger(s.logger)
	return s, nil
}

// Path returns the absolute settings file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and normalizes the stored settings; a missing file yields the defaults
func (s *FileStore) Load(ctx context.Context) (settings.Settings, error) {
	raw, _, err := s.readRaw()
	if err != nil {
		return settings.Settings{}, err
	}
	return s.normalizer.Normalize(raw)
}

// readRaw returns the decoded document and whether the file exists
func (s *FileStore) readRaw() (any, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings file %s: %w", s.path, err)
	}

	raw, err := settings.Decode(data, settings.FormatJSON)
	if err != nil {
		return nil, true, fmt.Errorf("failed to decode settings file %s: %w", s.path, err)
	}
	return raw, true, nil
}

// Save writes settings as given; callers pass normalized values
func (s *FileStore) Save(ctx context.Context, value settings.Settings) error {
	encoded, err := settings.Encode(value, settings.FormatJSON)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, encoded); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Debug("saved settings", "path", s.path, "templates", len(value.Templates))
	return nil
}

// EnsureDefaults loads the settings and, when nothing is stored yet, writes the
// normalized result so later loads and observers see a real file
func (s *FileStore) EnsureDefaults(ctx context.Context) (settings.Settings, error) {
	raw, exists, err := s.readRaw()
	if err != nil {
		return settings.Settings{}, err
	}
	normalized, err := s.normalizer.Normalize(raw)
	if err != nil {
		return settings.Settings{}, err
	}
	if !exists {
		if err := s.Save(ctx, normalized); err != nil {
			// the defaults are still usable for this run
			s.logger.Warn("failed to write default settings", "path", s.path, "error", err)
		}
	}
	return normalized, nil
}

// Update loads, applies fn, re-normalizes and saves
func (s *FileStore) Update(ctx context.Context, fn func(settings.Settings) (settings.Settings, error)) (settings.Settings, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	next, err := fn(current.Clone())
	if err != nil {
		return settings.Settings{}, err
	}
	normalized, err := s.normalizer.Normalize(next)
	if err != nil {
		return settings.Settings{}, err
	}
	if err := s.Save(ctx, normalized); err != nil {
		return settings.Settings{}, err
	}
	return normalized, nil
}

// Reset replaces the stored settings with the defaults
func (s *FileStore) Reset(ctx context.Context) (settings.Settings, error) {
	defaults := settings.DefaultSettings()
	if err := s.Save(ctx, defaults); err != nil {
		return settings.Settings{}, err
	}
	return defaults, nil
}

// Import decodes a settings document from r, normalizes it and saves it
func (s *FileStore) Import(ctx context.Context, r io.Reader, format settings.Format) (settings.Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to read import: %w", err)
	}
	raw, err := settings.Decode(data, format)
	if err != nil {
		return settings.Settings{}, err
	}
	normalized, err := s.normalizer.Normalize(raw)
	if err != nil {
		return settings.Settings{}, err
	}
	if err := s.Save(ctx, normalized); err != nil {
		return settings.Settings{}, err
	}
	return normalized, nil
}

// Export writes the stored settings to w in the interchange shape
func (s *FileStore) Export(ctx context.Context, w io.Writer, format settings.Format) error {
	current, err := s.Load(ctx)
	if err != nil {
		return err
	}
	encoded, err := settings.Export(current, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// writeFileAtomic replaces path through a temp file in the same directory, so
// readers and watchers never see a half-written document
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
