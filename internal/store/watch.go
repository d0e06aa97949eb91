package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chriscorrea/searchtemplater/internal/settings"
)

// Observe calls callback with freshly normalized settings every time the settings
// file changes, until ctx is cancelled. Bursts of writes are coalesced by the debounce
// window. A removed file reports the defaults; an undecodable one is skipped.
// Callbacks run one at a time on the calling goroutine.
func (s *FileStore) Observe(ctx context.Context, callback func(settings.Settings)) error {
	if callback == nil {
		return fmt.Errorf("observe callback required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// watch the directory: atomic saves replace the file, which drops a file watch
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure settings directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	s.logger.Debug("watching settings", "path", s.path, "debounce", s.debounce)

	reload := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.isSettingsEvent(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("settings watcher error", "error", err)

		case <-reload:
			current, err := s.Load(ctx)
			if err != nil {
				s.logger.Warn("skipping unreadable settings change", "path", s.path, "error", err)
				continue
			}
			callback(current)
		}
	}
}

func (s *FileStore) isSettingsEvent(event fsnotify.Event) bool {
	if event.Name == "" {
		return false
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == s.path
}
